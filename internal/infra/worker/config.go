package worker

import (
	"fmt"
	"time"

	"textforge/internal/pkg/config"
)

// WorkerConfig holds the settings of the cleanup worker process.
//
// Environment variables (invalid values fall back to the defaults):
//   - CLEANUP_SCHEDULE: cron expression or descriptor
//   - WORKER_TIMEZONE: IANA timezone for the schedule
//   - CLEANUP_TIMEOUT: upper bound of one cleanup run
//   - CLEANUP_ON_START: run once before the first scheduled tick
//   - WORKER_HEALTH_PORT, METRICS_PORT
type WorkerConfig struct {
	// CronSchedule is the cleanup schedule, e.g. "@every 1h" or "0 * * * *".
	CronSchedule string

	// Timezone is the IANA timezone used to interpret CronSchedule.
	// Default: "UTC"
	Timezone string

	// JobTimeout bounds a single cleanup run. Range: 10s-1h. Default: 5m
	JobTimeout time.Duration

	// RunOnStart triggers a cleanup as soon as the worker is ready.
	// Default: true
	RunOnStart bool

	// HealthPort serves /health and /health/ready. Default: 9091
	HealthPort int

	// MetricsPort serves /metrics. Default: 9090
	MetricsPort int
}

// DefaultConfig returns the worker defaults for the given schedule.
func DefaultConfig(schedule string) WorkerConfig {
	return WorkerConfig{
		CronSchedule: schedule,
		Timezone:     "UTC",
		JobTimeout:   5 * time.Minute,
		RunOnStart:   true,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, 10*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health and metrics ports must differ, both are %d", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the worker settings over DefaultConfig(schedule).
// It never fails: every invalid value is replaced by its default and
// reported through r.
func LoadConfigFromEnv(r *config.Reporter, schedule string) *WorkerConfig {
	cfg := DefaultConfig(schedule)

	cfg.CronSchedule = config.Track(r, "cron_schedule",
		config.LoadEnvWithFallback("CLEANUP_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = config.Track(r, "timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.JobTimeout = config.Track(r, "job_timeout",
		config.LoadEnvDuration("CLEANUP_TIMEOUT", cfg.JobTimeout, config.DurationRange(10*time.Second, time.Hour)))
	cfg.RunOnStart = config.Track(r, "run_on_start",
		config.LoadEnvBool("CLEANUP_ON_START", cfg.RunOnStart))
	cfg.HealthPort = config.Track(r, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535)))
	cfg.MetricsPort = config.Track(r, "metrics_port",
		config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, config.IntRange(1024, 65535)))

	r.Done()
	return &cfg
}
