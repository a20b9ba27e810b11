// Package metrics defines and registers the custom Prometheus metrics of the
// identity store. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Repository metrics ────────────────────────────────────────────────────────

// RepositoryOperationsTotal counts repository calls by outcome.
// Labels:
//   - collection: "accounts" or "roles"
//   - operation: "create", "find_by_id", "find_one", "find_all", "update", "delete"
//   - result: "ok", "not_found", "conflict", "duplicate", "canceled" or "error"
var RepositoryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repository_operations_total",
		Help:      "Total number of repository operations, by collection, operation and result.",
	},
	[]string{"collection", "operation", "result"},
)

// RepositoryOperationDuration measures the latency of a single repository call.
// For find_all it covers the whole scan, from first pull to the last yield.
var RepositoryOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repository_operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection", "operation"},
)

// RepositoryScanDocuments counts documents yielded by find_all scans.
var RepositoryScanDocuments = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repository_scan_documents_total",
		Help:      "Total number of documents yielded by predicate scans.",
	},
	[]string{"collection"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts aggregate cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of aggregate cache lookups, by result.",
	},
	[]string{"namespace", "result"},
)
