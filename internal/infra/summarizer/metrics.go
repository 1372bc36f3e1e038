package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"textforge/internal/domain/entity"
)

// MetricsRecorder receives one observation per summarization call and one
// per stage that fell back. Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	RecordSummary(t entity.SummaryType, summaryWords int, d time.Duration)
	RecordFallback(stage string)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordSummary(entity.SummaryType, int, time.Duration) {}
func (NoopMetrics) RecordFallback(string)                                 {}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	summaries *prometheus.CounterVec
	words     prometheus.Histogram
	duration  prometheus.Histogram
	fallbacks *prometheus.CounterVec
}

var (
	promMetrics     *PrometheusMetrics
	promMetricsOnce sync.Once
)

func registerOrExisting[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C)
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide recorder, registering the
// collectors with the default registry on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	promMetricsOnce.Do(func() {
		promMetrics = &PrometheusMetrics{
			summaries: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "summarizer_summaries_total",
				Help: "Total number of summaries produced by type",
			}, []string{"type"})),
			words: registerOrExisting(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarizer_summary_words",
				Help:    "Distribution of summary lengths in words",
				Buckets: []float64{10, 30, 50, 100, 200, 300, 500, 1000},
			})),
			duration: registerOrExisting(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarizer_duration_seconds",
				Help:    "Time taken to produce an extractive summary",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			})),
			fallbacks: registerOrExisting(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "summarizer_fallbacks_total",
				Help: "Total number of pipeline stages that used their fallback",
			}, []string{"stage"})),
		}
	})
	return promMetrics
}

func (p *PrometheusMetrics) RecordSummary(t entity.SummaryType, summaryWords int, d time.Duration) {
	p.summaries.WithLabelValues(string(t)).Inc()
	p.words.Observe(float64(summaryWords))
	p.duration.Observe(d.Seconds())
}

func (p *PrometheusMetrics) RecordFallback(stage string) {
	p.fallbacks.WithLabelValues(stage).Inc()
}
