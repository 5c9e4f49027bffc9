package service

import (
	"context"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/internal/domain/repository"
)

// TableService serves venue table listings to the terminals
type TableService struct {
	tableRepo repository.TableRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository) *TableService {
	return &TableService{tableRepo: tableRepo}
}

// List returns tables of the requested kind. An unrecognized kind falls back
// to the unfiltered set rather than failing the till.
func (s *TableService) List(ctx context.Context, kind string) ([]entity.Table, error) {
	return s.tableRepo.ListByKind(ctx, enum.ParseTableKind(kind))
}
