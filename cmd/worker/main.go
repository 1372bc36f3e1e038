package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textforge/internal/config"
	"textforge/internal/handler/http/respond"
	"textforge/internal/infra/adapter/persistence"
	"textforge/internal/infra/db"
	workerPkg "textforge/internal/infra/worker"
	"textforge/internal/observability/logging"
	pkgconfig "textforge/internal/pkg/config"
	"textforge/internal/usecase/cleanup"
)

func main() {
	logger := initLogger()
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("ignoring .env", slog.Any("error", err))
	}

	workerMetrics := workerPkg.NewWorkerMetrics(nil)
	reporter := &pkgconfig.Reporter{Logger: logger, Metrics: workerMetrics.ConfigMetrics}

	appConfig, err := config.LoadAppConfig(reporter)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	workerConfig := workerPkg.LoadConfigFromEnv(reporter, appConfig.CleanupSchedule)
	if err := workerConfig.Validate(); err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Duration("data_ttl", appConfig.DataTTL),
		slog.Int("max_records_per_table", appConfig.MaxRecordsPerTable),
		slog.Int("health_port", workerConfig.HealthPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, dialect := initDatabase(ctx, logger, appConfig, reporter)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, database.PingContext)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := setupCleanupJob(logger, database, dialect, appConfig, workerConfig, workerMetrics)
	startCronWorker(ctx, logger, job, workerConfig, healthServer)
}

// initLogger initializes the JSON logger from LOG_LEVEL and makes it the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database and waits until the API has migrated it.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig, r *pkgconfig.Reporter) (*sql.DB, db.Dialect) {
	database, dialect, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv(r))
	if err != nil {
		logger.Error("failed to open database", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
	waitForMigrations(ctx, logger, database, dialect)
	return database, dialect
}

func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB, dialect db.Dialect) {
	for i := 0; i < 10; i++ {
		ok, err := db.Ready(ctx, database, dialect)
		if err == nil && ok {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			os.Exit(1)
		case <-time.After(3 * time.Second):
		}
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// setupCleanupJob wires the retention use case over both tables.
func setupCleanupJob(
	logger *slog.Logger,
	database *sql.DB,
	dialect db.Dialect,
	appConfig *config.AppConfig,
	workerConfig *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
) *workerPkg.CleanupJob {
	repos, err := persistence.NewRepositories(database, dialect)
	if err != nil {
		logger.Error("failed to create repositories", slog.Any("error", err))
		os.Exit(1)
	}
	svc := cleanup.NewService(appConfig.DataTTL, appConfig.MaxRecordsPerTable, logger, repos.RetentionStores()...)
	return &workerPkg.CleanupJob{
		Cleaner: svc,
		Timeout: workerConfig.JobTimeout,
		Metrics: metrics,
		Logger:  logger,
	}
}

// startCronWorker schedules the cleanup job and blocks until ctx is done.
func startCronWorker(ctx context.Context, logger *slog.Logger, job *workerPkg.CleanupJob, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	c, err := workerPkg.NewScheduler(ctx, cfg, job)
	if err != nil {
		logger.Error("failed to schedule cleanup", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		go job.Run(ctx)
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// wait for a running cleanup to finish
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
