package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// retention implements repository.RetentionStore for one table. Times are
// stored in UTC so that text comparison in SQLite orders them correctly.
type retention struct {
	db    *sql.DB
	table string
}

func (r retention) Table() string { return r.table }

func (r retention) HasExpiryColumn(ctx context.Context) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = 'expires_at'`, r.table).Scan(&n)
	if err != nil {
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

// BackfillExpiry computes each expiry in Go; SQLite has no interval type.
func (r retention) BackfillExpiry(ctx context.Context, cutoff, now time.Time, ttl time.Duration) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("BackfillExpiry: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, created_at FROM `+r.table+` WHERE expires_at IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("BackfillExpiry: %w", err)
	}
	type pending struct {
		id        int64
		createdAt time.Time
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.createdAt); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("BackfillExpiry: Scan: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("BackfillExpiry: %w", err)
	}
	_ = rows.Close()

	var updated int64
	for _, p := range todo {
		expiresAt := p.createdAt.Add(ttl)
		if !p.createdAt.After(cutoff) {
			expiresAt = now
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE `+r.table+` SET expires_at = ? WHERE id = ?`, expiresAt.UTC(), p.id); err != nil {
			return 0, fmt.Errorf("BackfillExpiry: update id=%d: %w", p.id, err)
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("BackfillExpiry: Commit: %w", err)
	}
	return updated, nil
}

func (r retention) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+r.table+` WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UTC())
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
    SELECT id FROM `+r.table+` ORDER BY created_at ASC, id ASC LIMIT ?
)`, excess)
	if err != nil {
		return 0, fmt.Errorf("DeleteOldest: %w", err)
	}
	return res.RowsAffected()
}
