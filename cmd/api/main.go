package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textforge/internal/config"
	hhttp "textforge/internal/handler/http"
	"textforge/internal/handler/http/middleware"
	"textforge/internal/handler/http/respond"
	"textforge/internal/infra/adapter/persistence"
	"textforge/internal/infra/db"
	"textforge/internal/infra/lexicon"
	"textforge/internal/infra/markdown"
	"textforge/internal/infra/summarizer"
	"textforge/internal/observability/logging"
	"textforge/internal/observability/tracing"
	pkgconfig "textforge/internal/pkg/config"
	convUC "textforge/internal/usecase/conversion"
	sumUC "textforge/internal/usecase/summary"
)

func main() {
	logger := initLogger()
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("ignoring .env", slog.Any("error", err))
	}

	reporter := &pkgconfig.Reporter{Logger: logger, Metrics: pkgconfig.NewConfigMetrics("api", nil)}
	cfg, err := config.LoadAppConfig(reporter)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("env", cfg.Env),
		slog.Duration("data_ttl", cfg.DataTTL),
		slog.Duration("cleanup_interval", cfg.CleanupInterval),
		slog.Int("max_records_per_table", cfg.MaxRecordsPerTable))

	database, dialect := initDatabase(logger, cfg, reporter)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	shutdownTracing := tracing.Init("textforge-api", version, traceSampleRatio(reporter))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, cfg, database, dialect, version)
	runServer(logger, cfg, components, version)
}

// initLogger initializes the JSON logger from LOG_LEVEL and makes it the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database and runs migrations.
func initDatabase(logger *slog.Logger, cfg *config.AppConfig, r *pkgconfig.Reporter) (*sql.DB, db.Dialect) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, dialect, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv(r))
	if err != nil {
		logger.Error("failed to open database", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database, dialect
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = config.APIVersion
	}
	return version
}

func traceSampleRatio(r *pkgconfig.Reporter) float64 {
	return pkgconfig.Track(r, "trace_sample_ratio",
		pkgconfig.LoadEnvFloat("TRACE_SAMPLE_RATIO", 1.0, func(f float64) error {
			if f < 0 || f > 1 {
				return fmt.Errorf("must be between 0 and 1")
			}
			return nil
		}))
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *middleware.IPRateLimiter
}

// setupServer builds the core, the use cases and the router.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, database *sql.DB, dialect db.Dialect, version string) *ServerComponents {
	repos, err := persistence.NewRepositories(database, dialect)
	if err != nil {
		logger.Error("failed to create repositories", slog.Any("error", err))
		os.Exit(1)
	}

	lex := lexicon.Load(lexicon.LoadConfig(), logger)
	sum := summarizer.New(lex,
		summarizer.WithMetrics(summarizer.NewPrometheusMetrics()),
		summarizer.WithLogger(logger))
	conv := markdown.New(
		markdown.WithWeights(markdown.WeightsFromEnv(logger)),
		markdown.WithMetrics(markdown.NewPrometheusMetrics()),
		markdown.WithLogger(logger))

	summarySvc := sumUC.NewService(repos.Summaries, sum, cfg.DataTTL, logger)
	conversionSvc := convUC.NewService(repos.Conversions, conv, cfg.DataTTL, logger)

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Error("failed to parse trusted proxies", slog.Any("error", err))
		os.Exit(1)
	}
	if len(proxies) > 0 {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxies)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}
	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		RPS:    cfg.RateLimitRPS,
		Burst:  cfg.RateLimitBurst,
		Exempt: hhttp.ProbePaths,
	}, middleware.NewIPExtractor(proxies))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Logger = logger

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Logger:     logger,
		Summary:    summarySvc,
		Conversion: conversionSvc,
		Health: &hhttp.HealthHandler{
			DB:              database,
			Summaries:       repos.Summaries,
			Conversions:     repos.Conversions,
			Version:         version,
			CleanupInterval: cfg.CleanupInterval,
			MaxRecords:      cfg.MaxRecordsPerTable,
			TTL:             cfg.DataTTL,
		},
		Ready:        &hhttp.ReadyHandler{DB: database},
		CORS:         cors,
		RateLimiter:  limiter,
		MaxBodyBytes: config.MaxBodyBytes,
	})

	return &ServerComponents{Handler: handler, RateLimiter: limiter}
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM.
func runServer(logger *slog.Logger, cfg *config.AppConfig, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		go components.RateLimiter.RunCleanup(ctx, time.Minute)
		logger.Info("rate limit cleanup started", slog.Duration("interval", time.Minute))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
