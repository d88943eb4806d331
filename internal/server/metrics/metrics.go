// Package metrics provides Prometheus metrics for the storagehub server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagehub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storagehub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagehub_store_operations_total",
			Help: "Total number of object store calls",
		},
		[]string{"operation", "status"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storagehub_store_operation_duration_seconds",
			Help:    "Object store call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagehub_mutations_total",
			Help: "Hierarchy mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	mutationKeys = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storagehub_mutation_keys",
			Help:    "Number of keys touched by a recursive mutation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"operation"},
	)

	grantsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagehub_grants_issued_total",
			Help: "Access grants issued by method and status",
		},
		[]string{"method", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStoreOperation records a single call against the object store.
func RecordStoreOperation(operation string, duration time.Duration, success bool) {
	storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	storeOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
}

// RecordMutation records the outcome of a hierarchy mutation and how many keys it touched.
func RecordMutation(operation, outcome string, keys int) {
	mutationsTotal.WithLabelValues(operation, outcome).Inc()
	if keys > 0 {
		mutationKeys.WithLabelValues(operation).Observe(float64(keys))
	}
}

// RecordGrant records an access grant issuance attempt.
func RecordGrant(method string, success bool) {
	grantsIssuedTotal.WithLabelValues(method, statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
