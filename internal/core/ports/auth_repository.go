package ports

import (
	"context"

	"github.com/stockmanager/inventory-system/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
// Create must enforce username uniqueness at the store level (not a
// pre-check) and surface violations as domain.ErrUserExists.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
