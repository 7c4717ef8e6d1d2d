package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "generation_duration_seconds",
			Help:      "Inference backend generation latency",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	BackendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "backend_errors_total",
			Help:      "Total inference backend call failures",
		},
		[]string{"error_type"},
	)

	TurnsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "turns_persisted_total",
			Help:      "Total turns durably stored",
		},
		[]string{"role"},
	)

	PersistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "persistence_failures_total",
			Help:      "Total store operations that failed",
		},
		[]string{"operation"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
