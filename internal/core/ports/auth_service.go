package ports

import (
	"context"

	"github.com/stockmanager/inventory-system/internal/core/domain"
)

// AuthService handles registration and token issuance.
type AuthService interface {
	// Register stores a new identity with the base role. No token is issued.
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed token string.
	// Unknown username and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, username, password string) (string, error)
}
