package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration prometheus.Histogram
	SearchResultsReturned prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	ContactSubmissionsTotal *prometheus.CounterVec
	ContentFallbacksTotal   *prometheus.CounterVec
	SearchLogsPrunedTotal   prometheus.Counter
}

// New registers the storefront collectors on a fresh registry together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		SearchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_search_requests_total",
				Help: "Total number of product searches",
			},
			[]string{"status"},
		),
		SearchRequestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_search_request_duration_seconds",
				Help:    "Product search duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		SearchResultsReturned: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_search_results_returned",
				Help:    "Number of products returned per search",
				Buckets: []float64{0, 1, 2, 4, 8},
			},
		),

		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_search_cache_hits_total",
				Help: "Total number of search cache hits",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_search_cache_misses_total",
				Help: "Total number of search cache misses",
			},
		),

		ContactSubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_contact_submissions_total",
				Help: "Total number of contact form submissions",
			},
			[]string{"locale", "status"},
		),
		ContentFallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_content_fallbacks_total",
				Help: "Total number of pages rendered with fallback content",
			},
			[]string{"content"},
		),
		SearchLogsPrunedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_search_logs_pruned_total",
				Help: "Total number of search log rows removed by retention",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearch(status string, results int, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.Observe(duration.Seconds())
	if status == "ok" {
		m.SearchResultsReturned.Observe(float64(results))
	}
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordContactSubmission(locale, status string) {
	m.ContactSubmissionsTotal.WithLabelValues(locale, status).Inc()
}

func (m *Metrics) RecordContentFallback(content string) {
	m.ContentFallbacksTotal.WithLabelValues(content).Inc()
}

func (m *Metrics) RecordSearchLogsPruned(n int64) {
	m.SearchLogsPrunedTotal.Add(float64(n))
}
