// Package metrics provides Prometheus metrics for the reputation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages the service's Prometheus metrics: HTTP request
// counters/latency and trust-iteration convergence behavior.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	trustIterationDuration   prometheus.Histogram
	trustIterationIterations prometheus.Histogram
	trustConvergenceFailures prometheus.Counter
}

type Option func(*Manager)

// WithRegistry overrides the Prometheus registerer, defaulting to
// customRegistry when not supplied.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) { m.registry = r }
}

// customRegistry keeps these metrics off the default Go-runtime-polluted
// registry so /metrics only exposes what this service actually records.
var customRegistry = prometheus.NewRegistry()

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "trs",
		subsystem: "reputation",
		registry:  customRegistry,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled, labeled by path, method and status.",
	}, []string{"path", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "method"})

	m.trustIterationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trust_iteration_duration_seconds",
		Help:      "Wall-clock time spent in the trust power iteration per request.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	})

	m.trustIterationIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trust_iterations",
		Help:      "Number of power-iteration rounds run before convergence or max_iter.",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 50, 75, 100},
	})

	m.trustConvergenceFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trust_convergence_failures_total",
		Help:      "Number of trust computations that hit max_iter without meeting tolerance.",
	})

	return m
}

var globalManager = NewManager()

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(path, method, status string, durationSeconds float64) {
	globalManager.httpRequests.WithLabelValues(path, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(path, method).Observe(durationSeconds)
}

// RecordTrustIteration records one trust computation's wall-clock cost
// and round count.
func RecordTrustIteration(durationSeconds float64, iterations int) {
	globalManager.trustIterationDuration.Observe(durationSeconds)
	globalManager.trustIterationIterations.Observe(float64(iterations))
}

// RecordConvergenceFailure increments the convergence-failure counter.
func RecordConvergenceFailure() {
	globalManager.trustConvergenceFailures.Inc()
}

// GetRegistry returns the custom Prometheus registry these metrics are
// registered on, for mounting behind a /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
