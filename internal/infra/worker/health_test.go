package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func probe(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthServer_Liveness(t *testing.T) {
	s := NewHealthServer(":0", quietLogger(), nil)

	code, body := probe(t, s.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name       string
		ready      bool
		check      func(context.Context) error
		wantCode   int
		wantStatus string
	}{
		{"not ready", false, nil, http.StatusServiceUnavailable, "not ready"},
		{"ready without check", true, nil, http.StatusOK, "ok"},
		{"ready with passing check", true, func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"ready with failing check", true, func(context.Context) error { return dbErr }, http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHealthServer(":0", quietLogger(), tt.check)
			s.SetReady(tt.ready)

			code, body := probe(t, s.Handler(), "/health/ready")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotContains(t, body.Error, "connection refused")
		})
	}
}

func TestHealthServer_SetReadyToggles(t *testing.T) {
	s := NewHealthServer(":0", quietLogger(), nil)
	assert.False(t, s.Ready())

	s.SetReady(true)
	assert.True(t, s.Ready())

	s.SetReady(false)
	code, _ := probe(t, s.Handler(), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewHealthServer(addr, quietLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down")
	}
}
