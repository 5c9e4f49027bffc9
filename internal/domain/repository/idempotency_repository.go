package repository

import (
	"context"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key scoped to the cashier and endpoint,
	// so the same token sent to two endpoints never replays across them
	GetByKey(ctx context.Context, key string, cashierID uuid.UUID, endpoint string) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
