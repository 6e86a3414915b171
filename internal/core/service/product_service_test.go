package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubProductRepo mirrors the atomic semantics of the Mongo repository: every
// mutation checks its precondition and applies under one lock acquisition.
type stubProductRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{items: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.DeletedAt != nil {
		ts := *p.DeletedAt
		clone.DeletedAt = &ts
	}
	return &clone
}

func (r *stubProductRepo) Insert(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	clone := cloneProduct(p)
	clone.ID = fmt.Sprintf("%08d", r.seq)
	r.items[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) List(_ context.Context, filter ports.ListProductsFilter) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Product
	for _, p := range r.items {
		switch filter.Status {
		case domain.StatusActive:
			if p.Deleted {
				continue
			}
		case domain.StatusDeleted:
			if !p.Deleted {
				continue
			}
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Description), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	// Newest first, ids are monotonic.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return matched, nil
}

func (r *stubProductRepo) Update(_ context.Context, id, description string, quantity int, now time.Time) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Description = description
	p.Quantity = quantity
	p.UpdatedAt = now
	return cloneProduct(p), nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Deleted {
		return nil
	}
	p.Deleted = true
	p.DeletedAt = &now
	p.UpdatedAt = now
	return nil
}

func (r *stubProductRepo) Restore(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if !p.Deleted {
		return nil
	}
	p.Deleted = false
	p.DeletedAt = nil
	p.UpdatedAt = now
	return nil
}

func (r *stubProductRepo) AdjustQuantity(_ context.Context, id string, delta int, now time.Time) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if p.Deleted {
		return nil, domain.ErrProductDeleted
	}
	if p.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Quantity += delta
	p.UpdatedAt = now
	return cloneProduct(p), nil
}

// ---------------------------------------------------------------------------
// Stub dedup store
// ---------------------------------------------------------------------------

type stubDedup struct {
	mu      sync.Mutex
	keys    map[string]bool
	seenErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{keys: make(map[string]bool)}
}

func (d *stubDedup) Seen(_ context.Context, productID, direction, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seenErr != nil {
		return false, d.seenErr
	}
	return d.keys[productID+"/"+direction+"/"+key], nil
}

func (d *stubDedup) Mark(_ context.Context, productID, direction, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[productID+"/"+direction+"/"+key] = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestService() (*ProductService, *stubProductRepo, *stubDedup) {
	repo := newStubProductRepo()
	dedup := newStubDedup()
	return NewProductService(repo, dedup, discardLogger), repo, dedup
}

func mustCreate(t *testing.T, svc *ProductService, description string, quantity int) *domain.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		Description: description,
		Quantity:    quantity,
	})
	if err != nil {
		t.Fatalf("create %q: %v", description, err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Create / Get
// ---------------------------------------------------------------------------

func TestProductService_Create(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 10)
	if p.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if p.Quantity != 10 || p.Description != "Widget" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Deleted || p.DeletedAt != nil {
		t.Fatalf("new product must not be deleted: %+v", p)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v / %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestProductService_Get_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Get_IncludesDeleted(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 3)
	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if !got.Deleted || got.DeletedAt == nil {
		t.Fatalf("expected deleted product to resolve by id: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductService_List_StatusFilters(t *testing.T) {
	svc, _, _ := newTestService()

	active := mustCreate(t, svc, "Active widget", 1)
	deleted := mustCreate(t, svc, "Deleted widget", 1)
	if err := svc.SoftDelete(context.Background(), deleted.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	cases := []struct {
		name    string
		status  string
		wantIDs []string
	}{
		{"default is active", "", []string{active.ID}},
		{"explicit active lowercase", "active", []string{active.ID}},
		{"deleted only", "DELETED", []string{deleted.ID}},
		{"all mixed case", "All", []string{deleted.ID, active.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), ports.ListProductsInput{Status: tc.status})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("expected %d products, got %d", len(tc.wantIDs), len(got))
			}
			for i, want := range tc.wantIDs {
				if got[i].ID != want {
					t.Fatalf("position %d: expected id %s, got %s", i, want, got[i].ID)
				}
			}
		})
	}
}

func TestProductService_List_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.List(context.Background(), ports.ListProductsInput{Status: "ARCHIVED"}); !errors.Is(err, domain.ErrInvalidStatusFilter) {
		t.Fatalf("expected ErrInvalidStatusFilter, got %v", err)
	}
}

func TestProductService_List_SearchAndOrder(t *testing.T) {
	svc, _, _ := newTestService()

	first := mustCreate(t, svc, "Blue Widget", 1)
	_ = mustCreate(t, svc, "Cable", 1)
	second := mustCreate(t, svc, "red widget", 1)

	got, err := svc.List(context.Background(), ports.ListProductsInput{Search: "WIDGET"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Most recently created first.
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestProductService_Update(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 10)
	updated, err := svc.Update(context.Background(), p.ID, ports.UpdateProductInput{
		Description: "Widget v2",
		Quantity:    7,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "Widget v2" || updated.Quantity != 7 {
		t.Fatalf("unexpected product: %+v", updated)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) && !updated.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("updated_at went backwards: %v -> %v", p.UpdatedAt, updated.UpdatedAt)
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Update(context.Background(), "missing", ports.UpdateProductInput{Description: "x"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// Editing a soft-deleted product is allowed; only stock moves are blocked.
func TestProductService_Update_AllowedOnDeleted(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 10)
	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	updated, err := svc.Update(context.Background(), p.ID, ports.UpdateProductInput{
		Description: "Renamed while deleted",
		Quantity:    3,
	})
	if err != nil {
		t.Fatalf("update on deleted product: %v", err)
	}
	if !updated.Deleted || updated.DeletedAt == nil {
		t.Fatalf("update must not resurrect the product: %+v", updated)
	}
	if updated.Description != "Renamed while deleted" || updated.Quantity != 3 {
		t.Fatalf("unexpected product: %+v", updated)
	}
}

// ---------------------------------------------------------------------------
// SoftDelete / Restore
// ---------------------------------------------------------------------------

func TestProductService_SoftDelete_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 1)
	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	afterFirst, _ := svc.Get(context.Background(), p.ID)
	if !afterFirst.Deleted || afterFirst.DeletedAt == nil {
		t.Fatalf("expected deleted with timestamp: %+v", afterFirst)
	}

	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	afterSecond, _ := svc.Get(context.Background(), p.ID)
	if !afterSecond.DeletedAt.Equal(*afterFirst.DeletedAt) {
		t.Fatalf("deleted_at changed on repeat delete: %v -> %v", afterFirst.DeletedAt, afterSecond.DeletedAt)
	}
}

func TestProductService_SoftDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.SoftDelete(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Restore_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 1)

	// Restore on a live product is a no-op.
	if err := svc.Restore(context.Background(), p.ID); err != nil {
		t.Fatalf("restore on live product: %v", err)
	}

	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Restore(context.Background(), p.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, _ := svc.Get(context.Background(), p.ID)
	if got.Deleted || got.DeletedAt != nil {
		t.Fatalf("expected restored product: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Stock moves
// ---------------------------------------------------------------------------

func TestProductService_StockOut(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 10)
	got, err := svc.StockOut(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 4})
	if err != nil {
		t.Fatalf("stock out: %v", err)
	}
	if got.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", got.Quantity)
	}
}

func TestProductService_StockOut_InsufficientStock(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 6)
	if _, err := svc.StockOut(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 10}); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No partial decrement.
	got, _ := svc.Get(context.Background(), p.ID)
	if got.Quantity != 6 {
		t.Fatalf("quantity changed on rejected move: %d", got.Quantity)
	}
}

func TestProductService_StockMoves_DeletedConflict(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 10)
	if err := svc.SoftDelete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.StockOut(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 1}); !errors.Is(err, domain.ErrProductDeleted) {
		t.Fatalf("expected ErrProductDeleted on stock-out, got %v", err)
	}
	if _, err := svc.StockIn(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 1}); !errors.Is(err, domain.ErrProductDeleted) {
		t.Fatalf("expected ErrProductDeleted on stock-in, got %v", err)
	}

	got, _ := svc.Get(context.Background(), p.ID)
	if got.Quantity != 10 {
		t.Fatalf("quantity changed on rejected move: %d", got.Quantity)
	}
}

func TestProductService_StockMoves_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.StockIn(context.Background(), ports.StockMoveInput{ProductID: "missing", Quantity: 1}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_StockFlow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p := mustCreate(t, svc, "Widget", 10)

	got, err := svc.StockOut(ctx, ports.StockMoveInput{ProductID: p.ID, Quantity: 4})
	if err != nil || got.Quantity != 6 {
		t.Fatalf("stock out 4: %v, %+v", err, got)
	}

	if _, err := svc.StockOut(ctx, ports.StockMoveInput{ProductID: p.ID, Quantity: 10}); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	current, _ := svc.Get(ctx, p.ID)
	if current.Quantity != 6 {
		t.Fatalf("expected quantity still 6, got %d", current.Quantity)
	}

	if err := svc.SoftDelete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.StockIn(ctx, ports.StockMoveInput{ProductID: p.ID, Quantity: 1}); !errors.Is(err, domain.ErrProductDeleted) {
		t.Fatalf("expected ErrProductDeleted, got %v", err)
	}
}

// Two concurrent stock-outs may not both drain the same stock: exactly one
// succeeds, the other reports a conflict, and quantity never goes negative.
func TestProductService_StockOut_Concurrent(t *testing.T) {
	svc, _, _ := newTestService()

	p := mustCreate(t, svc, "Widget", 5)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.StockOut(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 5})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientStock):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}

	got, _ := svc.Get(context.Background(), p.ID)
	if got.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", got.Quantity)
	}
}

// ---------------------------------------------------------------------------
// Idempotency keys
// ---------------------------------------------------------------------------

func TestProductService_StockMove_IdempotentReplay(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p := mustCreate(t, svc, "Widget", 10)
	input := ports.StockMoveInput{ProductID: p.ID, Quantity: 3, IdempotencyKey: "move-1"}

	first, err := svc.StockIn(ctx, input)
	if err != nil || first.Quantity != 13 {
		t.Fatalf("first move: %v, %+v", err, first)
	}

	replay, err := svc.StockIn(ctx, input)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.Quantity != 13 {
		t.Fatalf("replay applied the move again: quantity %d", replay.Quantity)
	}
}

func TestProductService_StockMove_DedupErrorNonFatal(t *testing.T) {
	svc, _, dedup := newTestService()
	dedup.seenErr = errors.New("redis down")

	p := mustCreate(t, svc, "Widget", 10)
	got, err := svc.StockOut(context.Background(), ports.StockMoveInput{ProductID: p.ID, Quantity: 2, IdempotencyKey: "move-2"})
	if err != nil {
		t.Fatalf("move should proceed when dedup store fails: %v", err)
	}
	if got.Quantity != 8 {
		t.Fatalf("expected quantity 8, got %d", got.Quantity)
	}
}
