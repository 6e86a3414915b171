package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockmanager/inventory-system/internal/api/metrics"
	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/ports"
)

// StockMoveDedup abstracts the idempotency store (Redis) for stock moves.
type StockMoveDedup interface {
	Seen(ctx context.Context, productID, direction, key string) (bool, error)
	Mark(ctx context.Context, productID, direction, key string) error
}

// ProductService implements the inventory engine. It holds no state of its
// own; every operation is a short read-modify-write against the repository,
// which serializes mutations per product id.
type ProductService struct {
	repo  ports.ProductRepository
	dedup StockMoveDedup
	log   zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, dedup StockMoveDedup, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, dedup: dedup, log: log}
}

func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	created, err := s.repo.Insert(ctx, &domain.Product{
		Description: input.Description,
		Quantity:    input.Quantity,
		Deleted:     false,
		DeletedAt:   nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	metrics.ProductsCreatedTotal.Inc()
	s.log.Info().Str("product_id", created.ID).Int("quantity", created.Quantity).Msg("product created")
	return created, nil
}

// Get fetches a product by id regardless of its deleted flag; soft deletion
// only affects the list view.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, input ports.ListProductsInput) ([]*domain.Product, error) {
	status, err := domain.ParseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ports.ListProductsFilter{
		Search: strings.TrimSpace(input.Search),
		Status: status,
	})
}

// Update overwrites description and quantity unconditionally. A soft-deleted
// product can be edited; the deleted state is left untouched.
func (s *ProductService) Update(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	updated, err := s.repo.Update(ctx, id, input.Description, input.Quantity, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *ProductService) SoftDelete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info().Str("product_id", id).Msg("product soft-deleted")
	return nil
}

func (s *ProductService) Restore(ctx context.Context, id string) error {
	if err := s.repo.Restore(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info().Str("product_id", id).Msg("product restored")
	return nil
}

func (s *ProductService) StockIn(ctx context.Context, input ports.StockMoveInput) (*domain.Product, error) {
	return s.move(ctx, input, "in")
}

func (s *ProductService) StockOut(ctx context.Context, input ports.StockMoveInput) (*domain.Product, error) {
	return s.move(ctx, input, "out")
}

// move applies a single stock move. The quantity precondition and the write
// are one atomic repository operation, so two concurrent moves on the same
// product can never both succeed past the available stock.
func (s *ProductService) move(ctx context.Context, input ports.StockMoveInput, direction string) (*domain.Product, error) {
	if input.IdempotencyKey != "" {
		seen, err := s.dedup.Seen(ctx, input.ProductID, direction, input.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("product_id", input.ProductID).Msg("dedup check failed, applying anyway")
		} else if seen {
			metrics.StockMoveDedupTotal.WithLabelValues("hit").Inc()
			s.log.Info().
				Str("product_id", input.ProductID).
				Str("idempotency_key", input.IdempotencyKey).
				Msg("idempotent stock-move replay")
			return s.repo.FindByID(ctx, input.ProductID)
		} else {
			metrics.StockMoveDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	delta := input.Quantity
	if direction == "out" {
		delta = -delta
	}

	updated, err := s.repo.AdjustQuantity(ctx, input.ProductID, delta, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductDeleted):
			metrics.StockMoveConflictsTotal.WithLabelValues("product_deleted").Inc()
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.StockMoveConflictsTotal.WithLabelValues("insufficient_stock").Inc()
		}
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if markErr := s.dedup.Mark(ctx, input.ProductID, direction, input.IdempotencyKey); markErr != nil {
			s.log.Warn().Err(markErr).Str("product_id", input.ProductID).Msg("failed to set dedup key")
		}
	}

	metrics.StockMovesTotal.WithLabelValues(direction).Inc()
	s.log.Info().
		Str("product_id", input.ProductID).
		Str("direction", direction).
		Int("amount", input.Quantity).
		Int("quantity", updated.Quantity).
		Msg("stock move applied")

	return updated, nil
}
