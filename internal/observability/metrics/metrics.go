// Package metrics provides Prometheus metrics for the item service.
//
// Metrics live on an explicit Registry passed in by the caller so tests
// can observe them in isolation; nothing registers against the package
// default registerer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the request-level telemetry for the HTTP layer.
type HTTPMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inProgress      prometheus.Gauge
}

// NewHTTPMetrics creates HTTP metrics on a fresh registry, including Go
// runtime and process collectors.
func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &HTTPMetrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		inProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "in_progress_requests",
				Help: "Number of HTTP requests in progress",
			},
		),
	}
}

// RecordRequest records one completed request.
func (m *HTTPMetrics) RecordRequest(method, path, status string, duration float64) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration)
}

// IncInProgress increments the in-flight request gauge.
func (m *HTTPMetrics) IncInProgress() {
	m.inProgress.Inc()
}

// DecInProgress decrements the in-flight request gauge.
func (m *HTTPMetrics) DecInProgress() {
	m.inProgress.Dec()
}

// Registry returns the backing registry.
func (m *HTTPMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the pull-based exposition handler for the registry.
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}
