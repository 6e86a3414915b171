package ports

import (
	"context"

	"github.com/stockmanager/inventory-system/internal/core/domain"
)

// CreateProductInput carries the data needed to create a new product.
type CreateProductInput struct {
	Description string
	Quantity    int
}

// UpdateProductInput carries the replacement description and quantity.
type UpdateProductInput struct {
	Description string
	Quantity    int
}

// ListProductsInput carries the raw query parameters for the list endpoint.
// Status is the unparsed value from the request; the service normalizes it.
type ListProductsInput struct {
	Search string
	Status string
}

// StockMoveInput carries one stock-in or stock-out request.
// IdempotencyKey is optional; when present, a replayed key returns the
// current product state without applying the move again.
type StockMoveInput struct {
	ProductID      string
	Quantity       int // >= 1, enforced at the transport boundary
	IdempotencyKey string
}

// ProductService defines the use-case operations of the inventory engine.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, input ListProductsInput) ([]*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	StockIn(ctx context.Context, input StockMoveInput) (*domain.Product, error)
	StockOut(ctx context.Context, input StockMoveInput) (*domain.Product, error)
}
