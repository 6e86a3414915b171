package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// StockMoveDedup provides idempotency checks for stock moves backed by Redis.
// Key format: stockmove:<product_id>:<direction>:<idempotency_key>
type StockMoveDedup struct {
	client *redis.Client
}

// NewStockMoveDedup creates a StockMoveDedup wrapping the given Redis client.
func NewStockMoveDedup(client *redis.Client) *StockMoveDedup {
	return &StockMoveDedup{client: client}
}

// Seen reports whether a move with this idempotency key was already applied.
func (d *StockMoveDedup) Seen(ctx context.Context, productID, direction, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(productID, direction, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this move has been applied (expires after dedupTTL).
func (d *StockMoveDedup) Mark(ctx context.Context, productID, direction, key string) error {
	return d.client.Set(ctx, d.key(productID, direction, key), "1", dedupTTL).Err()
}

func (d *StockMoveDedup) key(productID, direction, key string) string {
	return fmt.Sprintf("stockmove:%s:%s:%s", productID, direction, key)
}
