// Package metrics exposes Prometheus collectors for the calculator and the
// HTTP API.
package metrics

import (
	"errors"

	"github.com/iwvelando/mortgage-affordability/pkg/affordability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "affordability"

var (
	// Calculations counts calculator operations by outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Calculator operations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	// InvalidParameters counts rejected inputs by parameter name.
	InvalidParameters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_parameters_total",
			Help:      "Inputs rejected by the calculator, by parameter.",
		},
		[]string{"parameter"},
	)

	// RequestDuration tracks API latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "code"},
	)

	// CacheLookups counts analysis cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Analysis cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Calculation statuses.
const (
	StatusOK               = "ok"
	StatusInvalidParameter = "invalid_parameter"
	StatusError            = "error"
)

// ObserveCalculation records the outcome of one calculator call.
func ObserveCalculation(operation string, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
		var paramErr *affordability.ParameterError
		if errors.As(err, &paramErr) {
			status = StatusInvalidParameter
			InvalidParameters.WithLabelValues(paramErr.Name).Inc()
		}
	}
	Calculations.WithLabelValues(operation, status).Inc()
}
