package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"textforge/internal/pkg/config"
)

// Dialect selects SQL syntax differences between the supported databases.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// ConnectionConfigFromEnv reads the DB_* pool variables over the defaults.
func ConnectionConfigFromEnv(r *config.Reporter) ConnectionConfig {
	cfg := DefaultConnectionConfig()
	positive := config.IntRange(1, 10000)
	cfg.MaxOpenConns = config.Track(r, "db_max_open_conns", config.LoadEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns, positive))
	cfg.MaxIdleConns = config.Track(r, "db_max_idle_conns", config.LoadEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns, positive))
	cfg.ConnMaxLifetime = config.Track(r, "db_conn_max_lifetime", config.LoadEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime, config.ValidatePositiveDuration))
	cfg.ConnMaxIdleTime = config.Track(r, "db_conn_max_idle_time", config.LoadEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime, config.ValidatePositiveDuration))
	return cfg
}

// Resolve maps a DATABASE_URL to a dialect, a database/sql driver name and
// the driver's data source name.
//
//	postgres://u:p@host/db      -> pgx
//	sqlite:///data/app.db       -> sqlite3 "data/app.db"
//	sqlite:///:memory:          -> sqlite3 ":memory:"
//	file:app.db?cache=shared    -> sqlite3 as is
func Resolve(dsn string) (Dialect, string, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, "pgx", dsn
	case strings.HasPrefix(dsn, "sqlite:///"):
		return SQLite, "sqlite3", strings.TrimPrefix(dsn, "sqlite:///")
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, "sqlite3", strings.TrimPrefix(dsn, "sqlite://")
	}
	return SQLite, "sqlite3", dsn
}

// Open connects, applies the pool settings and pings with a 5s timeout.
func Open(ctx context.Context, dsn string, pool ConnectionConfig) (*sql.DB, Dialect, error) {
	if dsn == "" {
		return nil, "", fmt.Errorf("open database: DATABASE_URL not set")
	}
	dialect, driver, source := Resolve(dsn)

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	if dialect == SQLite && strings.Contains(source, ":memory:") {
		// every connection to :memory: is a separate database
		pool.MaxOpenConns, pool.MaxIdleConns = 1, 1
		pool.ConnMaxLifetime, pool.ConnMaxIdleTime = 0, 0
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("dialect", string(dialect)),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, dialect, nil
}
