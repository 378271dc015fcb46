package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by extraction and preview counters.
const (
	OutcomeOK       = "ok"
	OutcomeNoData   = "no_data"
	OutcomeNoImage  = "no_image"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the daemon. Each Metrics value
// owns its registry so independent instances never collide.
type Metrics struct {
	UploadsTotal       *prometheus.CounterVec
	ExtractionsTotal   *prometheus.CounterVec
	PreviewsTotal      *prometheus.CounterVec
	SlicesTotal        prometheus.Counter
	SegmentationsTotal prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
	FilesStored        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,

		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dicomgate_uploads_total",
				Help: "Uploads received, by detected format and outcome",
			},
			[]string{"format", "outcome"},
		),

		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dicomgate_extractions_total",
				Help: "Metadata extraction attempts",
			},
			[]string{"outcome"},
		),

		PreviewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dicomgate_previews_total",
				Help: "Preview renderings, by outcome",
			},
			[]string{"outcome"},
		),

		SlicesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dicomgate_slice_lookups_total",
				Help: "Slice information lookups",
			},
		),

		SegmentationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dicomgate_segmentations_total",
				Help: "Segmentation requests",
			},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dicomgate_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"route", "method"},
		),

		FilesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dicomgate_files_stored",
				Help: "Files currently in the upload directory",
			},
		),
	}

	return m
}

// RecordUpload counts one upload attempt.
func (m *Metrics) RecordUpload(format string, accepted bool) {
	outcome := OutcomeOK
	if !accepted {
		outcome = OutcomeError
	}
	m.UploadsTotal.WithLabelValues(format, outcome).Inc()
}

// RecordExtraction counts one metadata extraction attempt.
func (m *Metrics) RecordExtraction(outcome string) {
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPreview counts one preview rendering.
func (m *Metrics) RecordPreview(outcome string) {
	m.PreviewsTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
