package jwtgate

import (
	"errors"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names emitted by the gate and the issuer.
const (
	MetricRequestsTotal        = "jwtgate_requests_total"
	MetricVerificationDuration = "jwtgate_verification_duration_seconds"
	MetricTokensIssuedTotal    = "jwtgate_tokens_issued_total"
)

// Outcome label values besides the core error codes.
const (
	OutcomeAuthenticated = "authenticated"
	OutcomeMissing       = "missing"
	OutcomeIssued        = "issued"
	OutcomeFailed        = "failed"
)

// Metrics is a generic metrics interface for the middleware.
// Implementations must be safe for concurrent use.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (m *NoopMetrics) IncCounter(name string, tags map[string]string)                      {}
func (m *NoopMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Collectors are registered on first use; a metric name must always be
// used with the same set of tag keys.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation backed by Prometheus.
// A nil registerer means prometheus.DefaultRegisterer.
//
// Collectors are registered on the first use of each name. If the registry
// already holds a collector with the same name but other label names, that
// first IncCounter or ObserveHistogram panics, on the request path. Give
// each gate a registry it owns, or share one only between gates.
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.counter(name, tags).With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.histogram(name, tags).With(tags).Observe(value)
}

func (m *PrometheusMetrics) counter(name string, tags map[string]string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		vec = register(m.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: name + " counter",
		}, keys(tags)))
		m.counters[name] = vec
	}
	return vec
}

func (m *PrometheusMetrics) histogram(name string, tags map[string]string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = register(m.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    name + " histogram",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, keys(tags)))
		m.histograms[name] = vec
	}
	return vec
}

// register reuses a collector already registered under the same
// descriptor, so two gates can share a registry.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
