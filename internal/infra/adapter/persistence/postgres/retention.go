package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// retention implements repository.RetentionStore for one table.
type retention struct {
	db    *sql.DB
	table string
}

func (r retention) Table() string { return r.table }

func (r retention) HasExpiryColumn(ctx context.Context) (bool, error) {
	const query = `
SELECT COUNT(*) FROM information_schema.columns
WHERE table_name = $1 AND column_name = 'expires_at'`
	var n int
	if err := r.db.QueryRowContext(ctx, query, r.table).Scan(&n); err != nil {
		return false, fmt.Errorf("HasExpiryColumn: %w", err)
	}
	return n > 0, nil
}

func (r retention) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (r retention) BackfillExpiry(ctx context.Context, cutoff, now time.Time, ttl time.Duration) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("BackfillExpiry: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE `+r.table+` SET expires_at = $1
WHERE expires_at IS NULL AND created_at <= $2`, now, cutoff)
	if err != nil {
		return 0, fmt.Errorf("BackfillExpiry: expire old: %w", err)
	}
	old, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
UPDATE `+r.table+` SET expires_at = created_at + ($1::double precision * interval '1 second')
WHERE expires_at IS NULL`, ttl.Seconds())
	if err != nil {
		return 0, fmt.Errorf("BackfillExpiry: expire recent: %w", err)
	}
	recent, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("BackfillExpiry: Commit: %w", err)
	}
	return old + recent, nil
}

func (r retention) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+r.table+` WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("DeleteExpired: %w", err)
	}
	return res.RowsAffected()
}

func (r retention) DeleteOldest(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	total, err := r.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("DeleteOldest: %w", err)
	}
	excess := total - int64(keep)
	if excess <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
DELETE FROM `+r.table+` WHERE id IN (
    SELECT id FROM `+r.table+` ORDER BY created_at ASC, id ASC LIMIT $1
)`, excess)
	if err != nil {
		return 0, fmt.Errorf("DeleteOldest: %w", err)
	}
	return res.RowsAffected()
}
