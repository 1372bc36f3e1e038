package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"textforge/internal/pkg/config"
)

// Job statuses recorded by RecordJobRun.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Deletion reasons recorded by RecordDeleted.
const (
	ReasonExpired = "expired"
	ReasonLimit   = "limit"
)

// WorkerMetrics embeds the configuration metrics of the worker and adds the
// cleanup job metrics:
//   - worker_cleanup_runs_total{status}
//   - worker_cleanup_duration_seconds
//   - worker_cleanup_deleted_total{table,reason}
//   - worker_cleanup_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	CleanupRunsTotal            *prometheus.CounterVec
	CleanupDurationSeconds      prometheus.Histogram
	CleanupDeletedTotal         *prometheus.CounterVec
	CleanupLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg, or with the
// default registerer when reg is nil.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		CleanupRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cleanup_runs_total",
			Help: "Total number of cleanup runs by status (started/success/failure)",
		}, []string{"status"}),

		CleanupDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cleanup_duration_seconds",
			Help:    "Duration of cleanup runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60, 300},
		}),

		CleanupDeletedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cleanup_deleted_total",
			Help: "Total number of rows deleted by cleanup, by table and reason (expired/limit)",
		}, []string{"table", "reason"}),

		CleanupLastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cleanup_last_success_timestamp",
			Help: "Unix timestamp of the last successful cleanup run",
		}),
	}
}

// RecordJobRun increments the run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CleanupRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CleanupDurationSeconds.Observe(seconds)
}

// RecordDeleted adds n deleted rows of table for reason. Zero is ignored.
func (m *WorkerMetrics) RecordDeleted(table, reason string, n int64) {
	if n <= 0 {
		return
	}
	m.CleanupDeletedTotal.WithLabelValues(table, reason).Add(float64(n))
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CleanupLastSuccessTimestamp.SetToCurrentTime()
}
