package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "textforge/internal/pkg/config"
)

// Environments selectable with APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

const (
	// APIVersion is reported by the health endpoint.
	APIVersion = "1.0.0"
	// MaxBodyBytes limits request bodies to 16 MiB.
	MaxBodyBytes int64 = 16 << 20
)

// AppConfig holds the settings shared by the API server and the worker.
type AppConfig struct {
	// Env is one of development, testing, production. Default: development
	Env string

	// DatabaseURL selects the driver: postgres:// uses pgx, anything else sqlite.
	// Default: sqlite:///instance/app.db (testing: sqlite:///:memory:)
	DatabaseURL string

	// DataTTL is how long stored records live.
	// Default: 1h (testing: 5m, production: 24h)
	DataTTL time.Duration

	// CleanupInterval is the period between retention runs, read in seconds.
	// Default: 3600s (testing: 60s)
	CleanupInterval time.Duration

	// CleanupSchedule is the cron expression for the worker.
	// Default: "@every <CleanupInterval>"
	CleanupSchedule string

	// MaxRecordsPerTable caps each table after expired rows are removed.
	// Default: 1000
	MaxRecordsPerTable int

	// HTTPAddr is the API listen address. Default: :8080
	HTTPAddr string

	// CORSAllowedOrigins lists allowed origins; "*" allows any. Default: *
	CORSAllowedOrigins []string

	// RateLimitRPS and RateLimitBurst configure the per-IP limiter.
	// Default: 10 rps, burst 20
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// honored. Default: none
	TrustedProxies []string
}

func preset(env string) AppConfig {
	cfg := AppConfig{
		Env:                env,
		DatabaseURL:        "sqlite:///instance/app.db",
		DataTTL:            time.Hour,
		CleanupInterval:    time.Hour,
		MaxRecordsPerTable: 1000,
		HTTPAddr:           ":8080",
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       10,
		RateLimitBurst:     20,
	}
	switch env {
	case EnvTesting:
		cfg.DatabaseURL = "sqlite:///:memory:"
		cfg.DataTTL = 5 * time.Minute
		cfg.CleanupInterval = time.Minute
	case EnvProduction:
		cfg.DatabaseURL = ""
		cfg.DataTTL = 24 * time.Hour
	}
	return cfg
}

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadAppConfig reads APP_ENV, starts from its preset and applies the
// environment overrides. Invalid overrides fall back to the preset and are
// reported through r. Only a missing DATABASE_URL in production is fatal.
func LoadAppConfig(r *pkgconfig.Reporter) (*AppConfig, error) {
	env := pkgconfig.Track(r, "app_env",
		pkgconfig.LoadEnvWithFallback("APP_ENV", EnvDevelopment,
			pkgconfig.OneOf(EnvDevelopment, EnvTesting, EnvProduction)))
	cfg := preset(env)

	cfg.DatabaseURL = pkgconfig.LoadEnvString("DATABASE_URL", cfg.DatabaseURL)
	cfg.DataTTL = pkgconfig.Track(r, "data_ttl",
		pkgconfig.LoadEnvDuration("DATA_TTL", cfg.DataTTL, pkgconfig.ValidatePositiveDuration))
	cfg.CleanupInterval = pkgconfig.Track(r, "data_cleanup_interval",
		pkgconfig.LoadEnvSeconds("DATA_CLEANUP_INTERVAL", cfg.CleanupInterval,
			pkgconfig.DurationRange(time.Second, 7*24*time.Hour)))
	cfg.CleanupSchedule = pkgconfig.Track(r, "cleanup_schedule",
		pkgconfig.LoadEnvWithFallback("CLEANUP_SCHEDULE",
			fmt.Sprintf("@every %s", cfg.CleanupInterval), pkgconfig.ValidateCronSchedule))
	cfg.MaxRecordsPerTable = pkgconfig.Track(r, "max_records_per_table",
		pkgconfig.LoadEnvInt("MAX_RECORDS_PER_TABLE", cfg.MaxRecordsPerTable, pkgconfig.IntRange(1, 10_000_000)))
	cfg.HTTPAddr = pkgconfig.LoadEnvString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.CORSAllowedOrigins = pkgconfig.LoadEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.RateLimitRPS = pkgconfig.Track(r, "rate_limit_rps",
		pkgconfig.LoadEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS, positiveFloat))
	cfg.RateLimitBurst = pkgconfig.Track(r, "rate_limit_burst",
		pkgconfig.LoadEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst, pkgconfig.IntRange(1, 10000)))
	cfg.TrustedProxies = pkgconfig.LoadEnvList("TRUSTED_PROXIES", nil)
	r.Done()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration correctness.
func (c *AppConfig) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set in %s", c.Env)
	}
	if c.DataTTL <= 0 {
		return fmt.Errorf("DATA_TTL must be positive")
	}
	if c.MaxRecordsPerTable <= 0 {
		return fmt.Errorf("MAX_RECORDS_PER_TABLE must be positive")
	}
	return nil
}

// DataTTLHours is the TTL in hours as reported by the health endpoint.
func (c *AppConfig) DataTTLHours() float64 {
	return c.DataTTL.Hours()
}

func positiveFloat(f float64) error {
	if f <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
