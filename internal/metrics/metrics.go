// Package metrics provides Prometheus metrics for hoopstats.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every hoopstats metric. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	providerRequests        *prometheus.CounterVec
	providerRequestDuration *prometheus.HistogramVec

	ingestedRows   *prometheus.CounterVec
	ingestFailures prometheus.Counter
	insightCache   *prometheus.CounterVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates the metrics on their own registry, together with the
// Go runtime and process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{namespace: "hoopstats"}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Stats provider requests by endpoint and status code",
	}, []string{"endpoint", "status"})
	m.providerRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Stats provider latency, excluding the request delay",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})

	m.ingestedRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Rows written by ingestion, by table",
	}, []string{"table"})
	m.ingestFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "player_failures_total",
		Help:      "Players skipped after an ingestion error",
	})
	m.insightCache = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "insight",
		Name:      "cache_total",
		Help:      "Season summary cache lookups by result (hit or miss)",
	}, []string{"result"})

	return m
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveProvider records one stats provider request. status 0 means the
// request failed before a response arrived.
func (m *Manager) ObserveProvider(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.providerRequests.WithLabelValues(endpoint, label).Inc()
	m.providerRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// AddIngestedRows counts rows written to table.
func (m *Manager) AddIngestedRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingestedRows.WithLabelValues(table).Add(float64(n))
}

// IncIngestFailures counts a player skipped during a refresh.
func (m *Manager) IncIngestFailures() {
	if m == nil {
		return
	}
	m.ingestFailures.Inc()
}

// ObserveInsightCache records a cache lookup.
func (m *Manager) ObserveInsightCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.insightCache.WithLabelValues("hit").Inc()
		return
	}
	m.insightCache.WithLabelValues("miss").Inc()
}
