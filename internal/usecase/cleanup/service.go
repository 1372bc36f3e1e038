// Package cleanup enforces record retention: every stored row gets an
// expiry, expired rows are deleted and each table is capped at MaxRecords.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"textforge/internal/observability/metrics"
	"textforge/internal/observability/tracing"
	"textforge/internal/repository"
)

// TableStats reports one table's cleanup. Skipped is set when the table
// has no expires_at column yet.
type TableStats struct {
	Table      string
	Backfilled int64
	Expired    int64
	Trimmed    int64
	Remaining  int64
	Skipped    bool
}

// Stats reports a cleanup run, one entry per store in Service order.
type Stats struct {
	Tables   []TableStats
	Duration time.Duration
}

// Deleted is the number of rows removed across all tables.
func (s Stats) Deleted() int64 {
	var n int64
	for _, t := range s.Tables {
		n += t.Expired + t.Trimmed
	}
	return n
}

// Service runs retention over a fixed set of stores.
type Service struct {
	Stores     []repository.RetentionStore
	TTL        time.Duration
	MaxRecords int
	Logger     *slog.Logger
	Now        func() time.Time
}

// NewService returns a Service over stores.
func NewService(ttl time.Duration, maxRecords int, logger *slog.Logger, stores ...repository.RetentionStore) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Stores: stores, TTL: ttl, MaxRecords: maxRecords, Logger: logger, Now: time.Now}
}

// Run cleans every store concurrently. The first failing store cancels the
// others; stats gathered so far are still returned.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "cleanup.Run", attribute.Int("cleanup.tables", len(s.Stores)))
	defer span.End()

	now := s.Now().UTC()
	stats := Stats{Tables: make([]TableStats, len(s.Stores))}

	g, gctx := errgroup.WithContext(ctx)
	for i, store := range s.Stores {
		g.Go(func() error {
			ts, err := s.cleanTable(gctx, store, now)
			stats.Tables[i] = ts
			if err != nil {
				return fmt.Errorf("cleanup %s: %w", store.Table(), err)
			}
			return nil
		})
	}
	err := g.Wait()
	stats.Duration = time.Since(start)

	if err != nil {
		tracing.RecordError(span, err)
		s.Logger.Error("cleanup failed", slog.Any("error", err))
		return stats, err
	}
	span.SetAttributes(attribute.Int64("cleanup.deleted", stats.Deleted()))
	s.Logger.Info("cleanup completed",
		slog.Int64("deleted", stats.Deleted()),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) cleanTable(ctx context.Context, store repository.RetentionStore, now time.Time) (TableStats, error) {
	ts := TableStats{Table: store.Table()}
	logger := s.Logger.With(slog.String("table", ts.Table))

	ok, err := store.HasExpiryColumn(ctx)
	if err != nil {
		return ts, err
	}
	if !ok {
		ts.Skipped = true
		logger.Warn("expires_at column missing, skipping table until migrated")
		return ts, nil
	}

	step := func(op string, fn func() (int64, error)) (int64, error) {
		t := time.Now()
		n, err := fn()
		metrics.RecordDBQuery(op+"_"+ts.Table, time.Since(t))
		return n, err
	}

	if ts.Backfilled, err = step("backfill_expiry", func() (int64, error) {
		return store.BackfillExpiry(ctx, now.Add(-s.TTL), now, s.TTL)
	}); err != nil {
		return ts, err
	}
	if ts.Expired, err = step("delete_expired", func() (int64, error) {
		return store.DeleteExpired(ctx, now)
	}); err != nil {
		return ts, err
	}
	if ts.Trimmed, err = step("delete_oldest", func() (int64, error) {
		return store.DeleteOldest(ctx, s.MaxRecords)
	}); err != nil {
		return ts, err
	}
	if ts.Remaining, err = store.Count(ctx); err != nil {
		return ts, err
	}
	metrics.UpdateRecordsTotal(ts.Table, ts.Remaining)

	logger.Info("table cleaned",
		slog.Int64("backfilled", ts.Backfilled),
		slog.Int64("expired", ts.Expired),
		slog.Int64("trimmed", ts.Trimmed),
		slog.Int64("remaining", ts.Remaining))
	return ts, nil
}
