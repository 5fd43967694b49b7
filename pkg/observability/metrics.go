package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AuthFailures    *prometheus.CounterVec
	Logins          prometheus.Counter
	Reconciliations *prometheus.CounterVec

	PageRenders    *prometheus.CounterVec
	RenderCacheHit prometheus.Counter
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pressleaf_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pressleaf_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pressleaf_auth_failures_total",
			Help: "Gate rejections by reason (missing, invalid, forbidden)",
		}, []string{"reason"}),
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "pressleaf_logins_total",
			Help: "Successful logins",
		}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pressleaf_token_reconciliations_total",
			Help: "Tokens written back into a session record by channel",
		}, []string{"channel"}),
		PageRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pressleaf_page_renders_total",
			Help: "Server-side page renders by locale",
		}, []string{"locale"}),
		RenderCacheHit: factory.NewCounter(prometheus.CounterOpts{
			Name: "pressleaf_render_cache_hits_total",
			Help: "Anonymous renders served from the LRU cache",
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
