// Package auth provides the bcrypt-backed password hashing capability
// consumed by the core through ports.PasswordHasher.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/stockmanager/inventory-system/internal/core/ports"
)

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a PasswordHasher backed by bcrypt at the
// default cost.
func NewPasswordHasher() ports.PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
