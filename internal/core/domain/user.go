package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is a single authorization role name.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Roles is the set of roles granted to a user. Inside the core it is a
// typed slice; it crosses the boundary (token claim, database column) as a
// comma-delimited string only.
type Roles []Role

// String renders the set in its delimited wire form, e.g. "ROLE_USER,ROLE_ADMIN".
func (r Roles) String() string {
	parts := make([]string, 0, len(r))
	for _, role := range r {
		parts = append(parts, string(role))
	}
	return strings.Join(parts, ",")
}

// Has reports whether the set contains the given role.
func (r Roles) Has(role Role) bool {
	for _, granted := range r {
		if granted == role {
			return true
		}
	}
	return false
}

// ParseRoles converts the delimited wire form back into a role set.
// Blank segments are dropped.
func ParseRoles(raw string) Roles {
	var roles Roles
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, Role(part))
		}
	}
	return roles
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        Roles     `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
