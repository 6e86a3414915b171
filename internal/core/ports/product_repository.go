package ports

import (
	"context"
	"time"

	"github.com/stockmanager/inventory-system/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	Search string              // optional: case-insensitive substring match on description
	Status domain.StatusFilter // ACTIVE, DELETED or ALL
}

// ProductRepository defines persistence operations for products.
//
// Mutating operations must be serialized per product id by the store: the
// business precondition (deleted flag, sufficient quantity) and the write
// are a single atomic operation, never an application-level
// read-check-write. This is what keeps the non-negative quantity invariant
// under concurrent stock moves.
type ProductRepository interface {
	Insert(ctx context.Context, p *domain.Product) (*domain.Product, error)

	// FindByID retrieves a product regardless of its deleted flag.
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching filter, newest first (descending id).
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, error)

	// Update overwrites description and quantity and refreshes updated_at.
	// The deleted state is neither checked nor changed.
	Update(ctx context.Context, id, description string, quantity int, now time.Time) (*domain.Product, error)

	// SoftDelete marks the product deleted and stamps deleted_at.
	// Already-deleted products are an idempotent no-op.
	SoftDelete(ctx context.Context, id string, now time.Time) error

	// Restore clears the deleted flag and deleted_at.
	// Not-deleted products are an idempotent no-op.
	Restore(ctx context.Context, id string, now time.Time) error

	// AdjustQuantity atomically applies delta to the quantity of a
	// non-deleted product, failing with domain.ErrProductDeleted or
	// domain.ErrInsufficientStock when the precondition does not hold.
	// On success the updated product is returned.
	AdjustQuantity(ctx context.Context, id string, delta int, now time.Time) (*domain.Product, error)
}
