package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"textforge/internal/handler/http/respond"
	"textforge/internal/usecase/cleanup"
)

// Cleaner runs one retention pass.
type Cleaner interface {
	Run(ctx context.Context) (cleanup.Stats, error)
}

// CleanupJob runs a Cleaner with a timeout and records the outcome. Runs
// never overlap: a tick that arrives while a run is in progress is skipped.
type CleanupJob struct {
	Cleaner Cleaner
	Timeout time.Duration
	Metrics *WorkerMetrics
	Logger  *slog.Logger

	mu sync.Mutex
}

// Run executes one cleanup and reports whether it ran.
func (j *CleanupJob) Run(ctx context.Context) bool {
	if !j.mu.TryLock() {
		j.Logger.Warn("cleanup still running, skipping tick")
		return false
	}
	defer j.mu.Unlock()

	start := time.Now()
	j.Metrics.RecordJobRun(StatusStarted)
	j.Logger.Info("cleanup started")

	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	stats, err := j.Cleaner.Run(ctx)
	j.Metrics.RecordJobDuration(time.Since(start).Seconds())
	for _, t := range stats.Tables {
		j.Metrics.RecordDeleted(t.Table, ReasonExpired, t.Expired)
		j.Metrics.RecordDeleted(t.Table, ReasonLimit, t.Trimmed)
	}
	if err != nil {
		j.Logger.Error("cleanup failed", slog.String("error", respond.SanitizeError(err)))
		j.Metrics.RecordJobRun(StatusFailure)
		return true
	}

	j.Metrics.RecordJobRun(StatusSuccess)
	j.Metrics.RecordLastSuccess()
	j.Logger.Info("cleanup job completed",
		slog.Int("tables", len(stats.Tables)),
		slog.Int64("deleted", stats.Deleted()),
		slog.Duration("duration", time.Since(start)))
	return true
}

// NewScheduler returns a cron scheduler in cfg.Timezone with job registered
// on cfg.CronSchedule. ctx is passed to every run.
func NewScheduler(ctx context.Context, cfg *WorkerConfig, job *CleanupJob) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.CronSchedule, func() { job.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("add cleanup job: %w", err)
	}
	return c, nil
}
