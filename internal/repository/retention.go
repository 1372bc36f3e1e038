package repository

import (
	"context"
	"time"
)

// RetentionStore is the part of a table the cleanup job needs.
type RetentionStore interface {
	// Table returns the table name, used for logging and metrics.
	Table() string
	// HasExpiryColumn reports whether the table carries expires_at.
	HasExpiryColumn(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int64, error)
	// BackfillExpiry sets expires_at on rows that lack it: rows created at
	// or before cutoff expire at now, newer rows at created_at + ttl.
	BackfillExpiry(ctx context.Context, cutoff, now time.Time, ttl time.Duration) (int64, error)
	// DeleteExpired removes rows with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// DeleteOldest removes the oldest rows by created_at until at most
	// keep rows remain.
	DeleteOldest(ctx context.Context, keep int) (int64, error)
}
