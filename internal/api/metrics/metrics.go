// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels and
// help strings. Collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BooksCreatedTotal counts newly created books.
// Label:
//   - genre: one of the catalog genres (e.g. "Fantasy")
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books added to the catalog, by genre.",
	},
	[]string{"genre"},
)

// ReviewsTotal counts successful review mutations.
// Label:
//   - action: "created", "updated" or "deleted"
var ReviewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_total",
		Help:      "Total number of review mutations, by action.",
	},
	[]string{"action"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup, login and logout outcomes.
// Labels:
//   - operation: "signup", "login" or "logout"
//   - result: "success" or the error code returned (e.g. "INVALID_PASSWORD")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of identity operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// GateRejectionsTotal counts requests turned away by the authentication gate.
// Label:
//   - code: "UNAUTHENTICATED", "INVALID_TOKEN", "USER_NOT_FOUND" or "SERVER_ERROR"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate, by code.",
	},
	[]string{"code"},
)

// Review actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
