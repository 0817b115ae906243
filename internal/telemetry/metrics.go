// Package telemetry exposes Prometheus metrics for the gateway. The
// collectors live on a dedicated metrics port, separate from the public API.
package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so tests and minimal deployments can skip telemetry.
type Metrics struct {
	registry *prometheus.Registry

	EditTotal        *prometheus.CounterVec
	EditDurationMs   *prometheus.HistogramVec
	RateLimitHits    prometheus.Counter
	UploadBytesTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		EditTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frameforge_edit_requests_total",
			Help: "Edit requests by provider and outcome status code.",
		}, []string{"provider", "status"}),
		EditDurationMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "frameforge_edit_duration_ms",
			Help:    "End-to-end edit latency in milliseconds by provider.",
			Buckets: []float64{100, 500, 1000, 5000, 15000, 30000, 60000, 120000},
		}, []string{"provider"}),
		RateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameforge_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		UploadBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frameforge_upload_bytes_total",
			Help: "Total bytes of image uploads accepted.",
		}),
	}

	reg.MustRegister(m.EditTotal, m.EditDurationMs, m.RateLimitHits, m.UploadBytesTotal)
	return m
}

// ObserveEdit records one completed edit request.
func (m *Metrics) ObserveEdit(provider string, status int, durationMs float64) {
	if m == nil {
		return
	}
	m.EditTotal.WithLabelValues(provider, fmt.Sprintf("%d", status)).Inc()
	m.EditDurationMs.WithLabelValues(provider).Observe(durationMs)
}

// RateLimited records one rejected request.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.RateLimitHits.Inc()
}

// AddUploadBytes records accepted upload volume.
func (m *Metrics) AddUploadBytes(n int64) {
	if m == nil {
		return
	}
	m.UploadBytesTotal.Add(float64(n))
}

// Handler serves the metrics registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
