package repository

import (
	"context"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for cashier account operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
