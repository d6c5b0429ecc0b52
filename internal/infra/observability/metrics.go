package observability

import (
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the assistant.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	intentsTotal    *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_collaborator_errors_total",
				Help: "Total errors from forecast collaborator services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		intentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_intents_total",
				Help: "Total classified intents by kind.",
			},
			[]string{"intent"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_requests_total",
				Help: "Total chat turns processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordCollaboratorError increments the error counter for one
// collaborator service.
func (m *Metrics) RecordCollaboratorError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// RecordIntent counts one classified intent.
func (m *Metrics) RecordIntent(intent string) {
	m.intentsTotal.WithLabelValues(intent).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetEngineSnapshot returns a snapshot of engine metrics suitable for
// the GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	// Prometheus counters expose cumulative values.
	intentCounts := make(map[string]int64, len(domain.AllIntentKinds))
	var total, unknown float64
	for _, kind := range domain.AllIntentKinds {
		v := getCounterValue(m.intentsTotal, string(kind))
		intentCounts[string(kind)] = int64(v)
		total += v
		if kind == domain.IntentUnknown {
			unknown = v
		}
	}

	var collabErrs float64
	for _, svc := range []string{"demand", "gap", "rankings"} {
		collabErrs += getCounterValue(m.externalErrors, svc)
	}

	errorCount := getCounterValue(m.requestsTotal, "error")
	totalRequests := getCounterValue(m.requestsTotal, "success") + errorCount
	cacheHits := getCounterValue(m.cacheHits, "session")
	cacheMisses := getCounterValue(m.cacheMisses, "session")

	var unknownRate, errorRate, cacheHitRate float64
	if total > 0 {
		unknownRate = unknown / total
	}
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.EngineMetrics{
		TotalQueries:     int64(total),
		IntentCounts:     intentCounts,
		UnknownRate:      unknownRate,
		CollaboratorErrs: int64(collabErrs),
		ErrorRate:        errorRate,
		CacheHitRate:     cacheHitRate,
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
