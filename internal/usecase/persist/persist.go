// Package persist writes records on a best-effort basis: a failing or
// unavailable store is reported to the caller as a warning, never as an
// error.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"textforge/internal/observability/metrics"
	"textforge/internal/resilience/circuitbreaker"
	"textforge/internal/resilience/retry"
)

// Guard runs store writes through a circuit breaker and retry policy and
// records store metrics. The zero value is not usable; see NewGuard.
type Guard struct {
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	logger  *slog.Logger
}

// NewGuard returns a Guard with the store breaker and retry settings. A nil
// logger uses slog.Default().
func NewGuard(logger *slog.Logger) *Guard {
	return NewGuardWith(circuitbreaker.New(circuitbreaker.StoreConfig()), retry.StoreConfig(), logger)
}

// NewGuardWith allows custom breaker and retry settings.
func NewGuardWith(cb *circuitbreaker.CircuitBreaker, rc retry.Config, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{breaker: cb, retry: rc, logger: logger}
}

// Save runs write for table and reports whether it succeeded.
func (g *Guard) Save(ctx context.Context, table string, write func(ctx context.Context) error) bool {
	start := time.Now()
	err := g.breaker.Do(ctx, func(ctx context.Context) error {
		return retry.WithBackoff(ctx, g.retry, func() error { return write(ctx) })
	})
	switch {
	case err == nil:
		metrics.RecordStoreWrite(table, metrics.WriteSuccess, time.Since(start))
		return true
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.RecordStoreWrite(table, metrics.WriteSkipped, 0)
		g.logger.Warn("store unavailable, record not saved",
			slog.String("table", table))
	default:
		metrics.RecordStoreWrite(table, metrics.WriteFailure, time.Since(start))
		g.logger.Error("failed to save record",
			slog.String("table", table),
			slog.Any("error", err))
	}
	return false
}

// Open reports whether the breaker currently refuses writes.
func (g *Guard) Open() bool { return g.breaker.IsOpen() }
