package http

import (
	"log/slog"
	"net/http"

	"textforge/internal/handler/http/conversion"
	"textforge/internal/handler/http/middleware"
	"textforge/internal/handler/http/requestid"
	"textforge/internal/handler/http/summary"
	"textforge/internal/observability/tracing"
)

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	Logger       *slog.Logger
	Summary      summary.Service
	Conversion   conversion.Service
	Health       http.Handler
	Ready        http.Handler
	CORS         middleware.CORSConfig
	RateLimiter  *middleware.IPRateLimiter // nil disables rate limiting
	MaxBodyBytes int64 // 0 means DefaultMaxBodyBytes
}

// DefaultMaxBodyBytes caps request bodies at 16 MiB.
const DefaultMaxBodyBytes int64 = 16 << 20

// Probe paths, exempt from rate limiting.
var ProbePaths = []string{"/health", "/api/health", "/ready", "/live", "/metrics"}

// NewRouter builds the API mux and wraps it, outermost first, in CORS,
// security headers, request ID, rate limit, recover, logging, input
// limits, tracing and metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	summary.Register(mux, cfg.Summary)
	conversion.Register(mux, cfg.Conversion)
	if cfg.Health != nil {
		mux.Handle("GET /api/health", cfg.Health)
		mux.Handle("GET /health", cfg.Health)
	}
	if cfg.Ready != nil {
		mux.Handle("GET /ready", cfg.Ready)
	}
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	var h http.Handler = mux
	h = MetricsMiddleware(h)
	h = tracing.Middleware(h)
	h = InputValidation(maxBody)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	if cfg.RateLimiter != nil {
		h = cfg.RateLimiter.Middleware(h)
	}
	h = requestid.Middleware(h)
	h = middleware.SecurityHeaders(middleware.APIPolicy())(h)
	h = middleware.CORS(cfg.CORS)(h)
	return h
}
