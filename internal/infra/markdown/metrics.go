package markdown

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder observes conversions and paragraph classifications.
type MetricsRecorder interface {
	RecordConversion(mode, status string, d time.Duration)
	RecordBlock(kind string)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordConversion(string, string, time.Duration) {}
func (NoopMetrics) RecordBlock(string)                             {}

// PrometheusMetrics implements MetricsRecorder.
type PrometheusMetrics struct {
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	blocks      *prometheus.CounterVec
}

var (
	promOnce    sync.Once
	promMetrics *PrometheusMetrics
)

// NewPrometheusMetrics returns the process-wide recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	promOnce.Do(func() {
		promMetrics = &PrometheusMetrics{
			conversions: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "markdown_conversions_total",
				Help: "Total number of markdown conversions by mode and status",
			}, []string{"mode", "status"}),
			duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "markdown_conversion_duration_seconds",
				Help:    "Time taken to convert text",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			}, []string{"mode"}),
			blocks: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "markdown_blocks_classified_total",
				Help: "Total number of paragraphs classified by kind",
			}, []string{"kind"}),
		}
	})
	return promMetrics
}

func (p *PrometheusMetrics) RecordConversion(mode, status string, d time.Duration) {
	p.conversions.WithLabelValues(mode, status).Inc()
	p.duration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusMetrics) RecordBlock(kind string) {
	p.blocks.WithLabelValues(kind).Inc()
}
