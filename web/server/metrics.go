package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	registry       *prometheus.Registry
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	samplesTotal   prometheus.Counter
	inspectsTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers the server collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "renders_total",
			Help:      "Render requests by scene and outcome.",
		}, []string{"scene", "status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "raytracer",
			Name:      "render_duration_seconds",
			Help:      "Wall-clock time spent tracing a render.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"scene"}),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "camera_samples_total",
			Help:      "Camera rays traced across all renders.",
		}),
		inspectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raytracer",
			Name:      "inspect_requests_total",
			Help:      "Pixel inspection requests by whether the ray hit an object.",
		}, []string{"hit"}),
	}

	m.registry.MustRegister(
		m.rendersTotal,
		m.renderDuration,
		m.samplesTotal,
		m.inspectsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
