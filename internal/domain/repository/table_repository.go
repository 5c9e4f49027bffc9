package repository

import (
	"context"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
)

// TableRepository defines the interface for venue table queries
type TableRepository interface {
	// ListByKind returns tables filtered by reservation status, in stable order
	ListByKind(ctx context.Context, kind enum.TableKind) ([]entity.Table, error)
	GetByID(ctx context.Context, id int64) (*entity.Table, error)
}
