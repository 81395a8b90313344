// Package metrics defines the Prometheus collectors of the search engine and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine and its API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  prometheus.Histogram
	CacheHitsTotal      *prometheus.CounterVec
	CacheMissesTotal    *prometheus.CounterVec
	CacheClearsTotal    prometheus.Counter
	ItemsIndexedTotal   prometheus.Counter
	IndexedItems        prometheus.Gauge
	IndexKeys           *prometheus.GaugeVec
	JobsTotal           *prometheus.CounterVec
}

// New creates all collectors on a fresh registry, so several engines (and tests)
// can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total queries by operation and the match type of the top result (empty when none, error on failure).",
			},
			[]string{"operation", "result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"operation"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 15, 20, 50},
			},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits by cache.",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses by cache.",
			},
			[]string{"cache"},
		),
		CacheClearsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_clears_total",
				Help: "Total number of wholesale cache clears.",
			},
		),
		ItemsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "items_indexed_total",
				Help: "Total items indexed.",
			},
		),
		IndexedItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexed_items",
				Help: "Number of items currently indexed.",
			},
		),
		IndexKeys: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "index_keys",
				Help: "Number of distinct keys per index.",
			},
			[]string{"index"},
		),
		JobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_total",
				Help: "Background jobs by type and final status.",
			},
			[]string{"type", "status"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheClearsTotal,
		m.ItemsIndexedTotal,
		m.IndexedItems,
		m.IndexKeys,
		m.JobsTotal,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records one query of the given operation ("search" or "alternatives").
func (m *Metrics) ObserveQuery(operation, resultType string, seconds float64, results int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(operation, resultType).Inc()
	m.SearchLatency.WithLabelValues(operation).Observe(seconds)
	if operation == "search" {
		m.SearchResultsCount.Observe(float64(results))
	}
}

// CacheLookup records a hit or miss on the named cache.
func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// CacheCleared records a wholesale clear of every cache.
func (m *Metrics) CacheCleared() {
	if m == nil {
		return
	}
	m.CacheClearsTotal.Inc()
}

// Indexed records newly indexed items and the resulting index shape.
func (m *Metrics) Indexed(added, total int, keyCounts map[string]int) {
	if m == nil {
		return
	}
	m.ItemsIndexedTotal.Add(float64(added))
	m.IndexedItems.Set(float64(total))
	for name, n := range keyCounts {
		m.IndexKeys.WithLabelValues(name).Set(float64(n))
	}
}

// JobFinished records the terminal status of a background job.
func (m *Metrics) JobFinished(jobType, status string) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(jobType, status).Inc()
}

// HTTPRequest records one served HTTP request.
func (m *Metrics) HTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
