package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textforge/internal/observability/metrics"
)

/*──── stub counter ────*/

type stubCounter struct {
	table string
	n     int64
	err   error
}

func (s stubCounter) Table() string                         { return s.table }
func (s stubCounter) Count(context.Context) (int64, error) { return s.n, s.err }

func newPingDB(t *testing.T) (sqlmock.Sqlmock, *HealthHandler) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, &HealthHandler{
		DB:              db,
		Version:         "1.0.0",
		CleanupInterval: time.Hour,
		MaxRecords:      1000,
		TTL:             90 * time.Minute,
	}
}

func TestHealthHandler_Healthy(t *testing.T) {
	mock, h := newPingDB(t)
	mock.ExpectPing()
	h.Summaries = stubCounter{table: "summaries", n: 12}
	h.Conversions = stubCounter{table: "markdown_conversions", n: 3}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "healthy",
		"database": "connected",
		"api_version": "1.0.0",
		"stats": {
			"summary_records": 12,
			"conversion_records": 3,
			"cleanup_interval_seconds": 3600,
			"max_records_per_table": 1000,
			"data_ttl_hours": 1.5
		}
	}`, rec.Body.String())
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("summaries")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_Degraded(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock, *HealthHandler)
		wantMsg string
	}{
		{
			name: "ping fails",
			setup: func(m sqlmock.Sqlmock, h *HealthHandler) {
				m.ExpectPing().WillReturnError(errors.New("connection refused"))
			},
			wantMsg: "error: connection refused",
		},
		{
			name: "count fails",
			setup: func(m sqlmock.Sqlmock, h *HealthHandler) {
				m.ExpectPing()
				h.Summaries = stubCounter{table: "summaries", err: errors.New("no such table: summaries")}
			},
			wantMsg: "error: no such table: summaries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, h := newPingDB(t)
			tt.setup(mock, h)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, http.StatusServiceUnavailable, rec.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "degraded", got.Status)
			assert.Equal(t, tt.wantMsg, got.Database)
			assert.Nil(t, got.Stats)
		})
	}
}

func TestHealthHandler_NoDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database not configured")
}

func TestReadyHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	h := &ReadyHandler{DB: db}

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("down"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
