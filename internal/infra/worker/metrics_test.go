package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func newTestMetrics(t *testing.T) *WorkerMetrics {
	t.Helper()
	return NewWorkerMetrics(prometheus.NewRegistry())
}

func TestNewWorkerMetrics(t *testing.T) {
	m := newTestMetrics(t)

	if m.ConfigMetrics == nil {
		t.Error("ConfigMetrics is nil")
	}
	if m.CleanupRunsTotal == nil || m.CleanupDurationSeconds == nil ||
		m.CleanupDeletedTotal == nil || m.CleanupLastSuccessTimestamp == nil {
		t.Error("cleanup metrics not initialized")
	}
}

func TestNewWorkerMetrics_SeparateRegistries(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("registering on two registries panicked: %v", r)
		}
	}()
	_ = NewWorkerMetrics(prometheus.NewRegistry())
	_ = NewWorkerMetrics(prometheus.NewRegistry())
}

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordJobRun(StatusSuccess)
	m.RecordJobRun(StatusSuccess)
	m.RecordJobRun(StatusFailure)

	if got := testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusSuccess)); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusFailure)); got != 1 {
		t.Errorf("failure count = %v, want 1", got)
	}
}

func TestWorkerMetrics_RecordJobDuration(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordJobDuration(0.5)
	m.RecordJobDuration(3)

	var metric dto.Metric
	if err := m.CleanupDurationSeconds.Write(&metric); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	h := metric.GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", h.GetSampleCount())
	}
	if h.GetSampleSum() != 3.5 {
		t.Errorf("sample sum = %v, want 3.5", h.GetSampleSum())
	}
}

func TestWorkerMetrics_RecordDeleted(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordDeleted("summaries", ReasonExpired, 3)
	m.RecordDeleted("summaries", ReasonExpired, 2)
	m.RecordDeleted("summaries", ReasonLimit, 0)
	m.RecordDeleted("markdown_conversions", ReasonLimit, 7)

	if got := testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("summaries", ReasonExpired)); got != 5 {
		t.Errorf("summaries expired = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("markdown_conversions", ReasonLimit)); got != 7 {
		t.Errorf("conversions limit = %v, want 7", got)
	}
	// zero deletions do not create a series
	if got := testutil.CollectAndCount(m.CleanupDeletedTotal); got != 2 {
		t.Errorf("series = %d, want 2", got)
	}
}

func TestWorkerMetrics_RecordLastSuccess(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordLastSuccess()

	if got := testutil.ToFloat64(m.CleanupLastSuccessTimestamp); got <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", got)
	}
}
