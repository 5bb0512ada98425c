// Package observability exposes Prometheus metrics and health probes for the
// client, served over HTTP in monitor mode.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Backend request metrics
	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vakeel_backend_requests_total",
			Help: "Total number of backend requests",
		},
		[]string{"operation", "outcome"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vakeel_backend_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		},
		[]string{"operation"},
	)

	backendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vakeel_backend_failures_total",
			Help: "Total number of backend failures by kind",
		},
		[]string{"operation", "kind"},
	)

	// Session metrics
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vakeel_sessions_active",
			Help: "Number of conversation sessions held by the client",
		},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vakeel_messages_total",
			Help: "Total number of messages appended to sessions",
		},
		[]string{"role"},
	)

	initOnce sync.Once
)

// InitMetrics registers the Prometheus metrics. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			backendRequestsTotal,
			backendRequestDuration,
			backendFailuresTotal,
			sessionsActive,
			messagesTotal,
		)
	})
}

// MetricsHandler returns the HTTP handler for the /metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordBackendRequest records one backend call.
func RecordBackendRequest(operation, outcome string, duration time.Duration) {
	backendRequestsTotal.WithLabelValues(operation, outcome).Inc()
	backendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBackendFailure counts a classified backend failure.
func RecordBackendFailure(operation, kind string) {
	backendFailuresTotal.WithLabelValues(operation, kind).Inc()
}

// SetActiveSessions sets the session count gauge.
func SetActiveSessions(count int) {
	sessionsActive.Set(float64(count))
}

// RecordMessage counts a message appended to a session.
func RecordMessage(role string) {
	messagesTotal.WithLabelValues(role).Inc()
}
