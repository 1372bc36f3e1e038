package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables managed by MigrateUp.
const (
	SummariesTable   = "summaries"
	ConversionsTable = "markdown_conversions"
)

var createTables = map[Dialect][]string{
	Postgres: {
		`
CREATE TABLE IF NOT EXISTS summaries (
    id              BIGSERIAL PRIMARY KEY,
    original_text   TEXT NOT NULL,
    summary_text    TEXT NOT NULL,
    original_length INTEGER NOT NULL,
    summary_length  INTEGER NOT NULL,
    summary_type    VARCHAR(20) NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`
CREATE TABLE IF NOT EXISTS markdown_conversions (
    id              BIGSERIAL PRIMARY KEY,
    original_text   TEXT NOT NULL,
    converted_text  TEXT NOT NULL,
    conversion_type VARCHAR(20) NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	SQLite: {
		`
CREATE TABLE IF NOT EXISTS summaries (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    original_text   TEXT NOT NULL,
    summary_text    TEXT NOT NULL,
    original_length INTEGER NOT NULL,
    summary_length  INTEGER NOT NULL,
    summary_type    VARCHAR(20) NOT NULL,
    created_at      DATETIME NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS markdown_conversions (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    original_text   TEXT NOT NULL,
    converted_text  TEXT NOT NULL,
    conversion_type VARCHAR(20) NOT NULL,
    created_at      DATETIME NOT NULL
)`,
	},
}

var expiryColumnType = map[Dialect]string{
	Postgres: "TIMESTAMPTZ",
	SQLite:   "DATETIME",
}

// MigrateUp creates both tables, adds expires_at to tables created before
// expiry existed, and creates the retention indexes. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts, ok := createTables[dialect]
	if !ok {
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: create table: %w", err)
		}
	}

	for _, table := range []string{SummariesTable, ConversionsTable} {
		has, err := HasColumn(ctx, db, dialect, table, "expires_at")
		if err != nil {
			return fmt.Errorf("migrate: inspect %s: %w", table, err)
		}
		if has {
			continue
		}
		alter := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN expires_at %s`, table, expiryColumnType[dialect])
		if _, err := db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("migrate: add expires_at to %s: %w", table, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_expires_at ON summaries(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON markdown_conversions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_expires_at ON markdown_conversions(expires_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("migrate: create index: %w", err)
		}
	}
	return nil
}

// MigrateDown drops both tables.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{ConversionsTable, SummariesTable} {
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
			return fmt.Errorf("migrate down: drop %s: %w", table, err)
		}
	}
	return nil
}

// HasColumn reports whether table has column.
func HasColumn(ctx context.Context, db *sql.DB, dialect Dialect, table, column string) (bool, error) {
	var query string
	switch dialect {
	case Postgres:
		query = `SELECT COUNT(*) FROM information_schema.columns WHERE table_name = $1 AND column_name = $2`
	case SQLite:
		query = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	default:
		return false, fmt.Errorf("unsupported dialect %q", dialect)
	}
	var n int
	if err := db.QueryRowContext(ctx, query, table, column).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ready reports whether both tables exist with their expiry column. The
// worker polls it until the API has migrated.
func Ready(ctx context.Context, db *sql.DB, dialect Dialect) (bool, error) {
	for _, table := range []string{SummariesTable, ConversionsTable} {
		ok, err := HasColumn(ctx, db, dialect, table, "expires_at")
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
