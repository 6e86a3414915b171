// Package metrics defines and registers all custom Prometheus metrics for
// the inventory API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry at init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductsCreatedTotal counts newly created products.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

// StockMovesTotal counts successfully applied stock moves.
// Label:
//   - direction: "in" or "out"
var StockMovesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_moves_total",
		Help:      "Total number of stock moves applied, by direction.",
	},
	[]string{"direction"},
)

// StockMoveConflictsTotal counts stock moves rejected by a business rule.
// Label:
//   - reason: "product_deleted" or "insufficient_stock"
var StockMoveConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_move_conflicts_total",
		Help:      "Total number of stock moves rejected, by reason.",
	},
	[]string{"reason"},
)

// StockMoveDedupTotal counts idempotency-key decisions on stock moves.
// Label:
//   - result: "hit" (replay, skipped) or "miss" (new move, applied)
var StockMoveDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_move_dedup_total",
		Help:      "Total number of stock-move idempotency checks, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
