// Package telemetry registers the Prometheus metrics of the service against
// the default registry. They are served on GET /metrics by the main router.
//
// HTTP metrics are labelled by the gin route template (c.FullPath()), never
// the raw URL, so query strings and unknown paths cannot grow the label set.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results recorded by OrganizationOperationsTotal.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDenied  = "denied"
)

var (
	// HTTPRequestsTotal counts requests by {method, path, status}.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by {method, path}.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// OrganizationOperationsTotal counts tenant lifecycle operations by
	// {operation, result}. Operations are create, rename, update_credentials,
	// delete and login.
	OrganizationOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organization_operations_total",
			Help: "Total number of organization lifecycle operations, by operation and result.",
		},
		[]string{"operation", "result"},
	)
)

// RecordOperation increments OrganizationOperationsTotal for operation.
func RecordOperation(operation, result string) {
	OrganizationOperationsTotal.WithLabelValues(operation, result).Inc()
}
