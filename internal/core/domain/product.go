package domain

import (
	"errors"
	"strings"
	"time"
)

// StatusFilter selects which products a listing returns based on their
// soft-delete state.
type StatusFilter string

const (
	StatusActive  StatusFilter = "ACTIVE"
	StatusDeleted StatusFilter = "DELETED"
	StatusAll     StatusFilter = "ALL"
)

var ErrProductNotFound = errors.New("product not found")
var ErrProductDeleted = errors.New("product is deleted")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrInvalidStatusFilter = errors.New("status must be ACTIVE, DELETED or ALL")

// ParseStatusFilter normalizes a raw status query value. Blank defaults to
// ACTIVE, matching is case-insensitive, anything else is rejected.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusDeleted:
		return StatusDeleted, nil
	case StatusAll:
		return StatusAll, nil
	}
	return "", ErrInvalidStatusFilter
}

// Product is the core aggregate root. Invariants: Quantity never goes
// negative, and DeletedAt is non-nil exactly when Deleted is true.
type Product struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Description string     `json:"description" bson:"description"`
	Quantity    int        `json:"quantity" bson:"quantity"`
	Deleted     bool       `json:"deleted" bson:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at" bson:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
