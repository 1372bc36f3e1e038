package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"textforge/internal/handler/http/respond"
	"textforge/internal/observability/metrics"
)

// RecordCounter counts the rows of one table.
type RecordCounter interface {
	Table() string
	Count(ctx context.Context) (int64, error)
}

// HealthStats is the "stats" object of the health response.
type HealthStats struct {
	SummaryRecords         int64   `json:"summary_records"`
	ConversionRecords      int64   `json:"conversion_records"`
	CleanupIntervalSeconds int64   `json:"cleanup_interval_seconds"`
	MaxRecordsPerTable     int     `json:"max_records_per_table"`
	DataTTLHours           float64 `json:"data_ttl_hours"`
}

// HealthResponse is the body of /api/health. Stats is omitted when the
// database check fails.
type HealthResponse struct {
	Status     string       `json:"status"`
	Database   string       `json:"database"`
	APIVersion string       `json:"api_version,omitempty"`
	Stats      *HealthStats `json:"stats,omitempty"`
}

// HealthHandler pings the database, counts the stored records and reports
// the retention settings. It answers 503 with status "degraded" when the
// database cannot be reached or counted.
type HealthHandler struct {
	DB              *sql.DB
	Summaries       RecordCounter
	Conversions     RecordCounter
	Version         string
	CleanupInterval time.Duration
	MaxRecords      int
	TTL             time.Duration
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	stats, err := h.check(ctx)
	if err != nil {
		slog.Warn("health check failed", slog.String("error", respond.SanitizeError(err)))
		respond.JSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "degraded",
			Database: "error: " + respond.SanitizeError(err),
		})
		return
	}
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Database:   "connected",
		APIVersion: h.Version,
		Stats:      stats,
	})
}

func (h *HealthHandler) check(ctx context.Context) (*HealthStats, error) {
	if h.DB == nil {
		return nil, errNotConfigured
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return nil, err
	}
	metrics.UpdateDBConnectionStats(h.DB.Stats())

	stats := &HealthStats{
		CleanupIntervalSeconds: int64(h.CleanupInterval / time.Second),
		MaxRecordsPerTable:     h.MaxRecords,
		DataTTLHours:           h.TTL.Hours(),
	}
	var err error
	if stats.SummaryRecords, err = count(ctx, h.Summaries); err != nil {
		return nil, err
	}
	if stats.ConversionRecords, err = count(ctx, h.Conversions); err != nil {
		return nil, err
	}
	return stats, nil
}

func count(ctx context.Context, c RecordCounter) (int64, error) {
	if c == nil {
		return 0, nil
	}
	start := time.Now()
	n, err := c.Count(ctx)
	metrics.RecordDBQuery("count_"+c.Table(), time.Since(start))
	if err != nil {
		return 0, err
	}
	metrics.UpdateRecordsTotal(c.Table(), n)
	return n, nil
}

type healthError string

func (e healthError) Error() string { return string(e) }

const errNotConfigured = healthError("database not configured")

// ReadyHandler is the readiness probe: 200 once the database answers.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler is the liveness probe and always answers 200.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
