package repository

import (
	"context"
	"errors"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	domainRepo "github.com/clubtryara/pos/internal/domain/repository"
	"gorm.io/gorm"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new venue table repository
func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

// ListByKind filters on the free-text status column. Venue databases record
// reservation status inconsistently ("Reserved", "booked ", "AVAILABLE"), so
// the match is case-insensitive and substring-based.
func (r *tableRepository) ListByKind(ctx context.Context, kind enum.TableKind) ([]entity.Table, error) {
	var tables []entity.Table

	query := r.db.WithContext(ctx).Model(&entity.Table{})
	switch kind {
	case enum.TableKindReserved:
		query = query.Where(
			"LOWER(TRIM(status)) LIKE ? OR LOWER(TRIM(status)) LIKE ?",
			"%reserv%", "%book%")
	case enum.TableKindAvailable:
		query = query.Where(
			"LOWER(TRIM(status)) LIKE ? OR LOWER(TRIM(status)) LIKE ? OR TRIM(status) = ''",
			"%avail%", "%free%")
	}

	err := query.Order("id ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) GetByID(ctx context.Context, id int64) (*entity.Table, error) {
	var table entity.Table
	err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}
