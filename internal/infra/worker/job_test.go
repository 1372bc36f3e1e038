package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textforge/internal/usecase/cleanup"
)

/*──── インメモリスタブ ────*/

type stubCleaner struct {
	stats    cleanup.Stats
	err      error
	calls    atomic.Int32
	block    chan struct{}
	deadline bool
}

func (s *stubCleaner) Run(ctx context.Context) (cleanup.Stats, error) {
	s.calls.Add(1)
	_, s.deadline = ctx.Deadline()
	if s.block != nil {
		<-s.block
	}
	return s.stats, s.err
}

func newJob(t *testing.T, c Cleaner) *CleanupJob {
	t.Helper()
	return &CleanupJob{
		Cleaner: c,
		Timeout: time.Minute,
		Metrics: newTestMetrics(t),
		Logger:  quietLogger(),
	}
}

/* ───── CleanupJob.Run ───── */

func TestCleanupJob_Success(t *testing.T) {
	c := &stubCleaner{stats: cleanup.Stats{Tables: []cleanup.TableStats{
		{Table: "summaries", Expired: 4, Trimmed: 1},
		{Table: "markdown_conversions", Expired: 2},
	}}}
	job := newJob(t, c)

	ran := job.Run(context.Background())

	require.True(t, ran)
	assert.True(t, c.deadline, "cleaner should run under a timeout")
	m := job.Metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusStarted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("summaries", ReasonExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("summaries", ReasonLimit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("markdown_conversions", ReasonExpired)))
	assert.Greater(t, testutil.ToFloat64(m.CleanupLastSuccessTimestamp), 0.0)
}

func TestCleanupJob_Failure(t *testing.T) {
	c := &stubCleaner{
		stats: cleanup.Stats{Tables: []cleanup.TableStats{{Table: "summaries", Expired: 3}}},
		err:   errors.New("cleanup summaries: postgres://u:secret@db/x unreachable"),
	}
	job := newJob(t, c)

	require.True(t, job.Run(context.Background()))

	m := job.Metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues(StatusSuccess)))
	// partial progress is still counted
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CleanupDeletedTotal.WithLabelValues("summaries", ReasonExpired)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CleanupLastSuccessTimestamp))
}

func TestCleanupJob_SkipsOverlappingRuns(t *testing.T) {
	c := &stubCleaner{block: make(chan struct{})}
	job := newJob(t, c)

	first := make(chan bool)
	go func() { first <- job.Run(context.Background()) }()
	require.Eventually(t, func() bool { return c.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.False(t, job.Run(context.Background()))

	close(c.block)
	assert.True(t, <-first)
	assert.Equal(t, int32(1), c.calls.Load())
}

/* ───── NewScheduler ───── */

func TestNewScheduler(t *testing.T) {
	job := newJob(t, &stubCleaner{})

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig("@every 1h")
		c, err := NewScheduler(context.Background(), &cfg, job)
		require.NoError(t, err)
		assert.Len(t, c.Entries(), 1)
		assert.Equal(t, time.UTC, c.Location())
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := DefaultConfig("@every 1h")
		cfg.Timezone = "Atlantis/Capital"
		_, err := NewScheduler(context.Background(), &cfg, job)
		assert.Error(t, err)
	})

	t.Run("bad schedule", func(t *testing.T) {
		cfg := DefaultConfig("61 * * * *")
		_, err := NewScheduler(context.Background(), &cfg, job)
		assert.Error(t, err)
	})
}
