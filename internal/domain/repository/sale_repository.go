package repository

import (
	"context"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/pkg/pagination"
)

// SaleRepository defines the interface for persisted sale operations
type SaleRepository interface {
	// Create persists a sale with its lines in one transaction
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
}
