package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"textforge/internal/handler/http/respond"
	"textforge/internal/observability/metrics"
)

// RateLimitConfig configures the per-IP token buckets.
type RateLimitConfig struct {
	// RPS is the sustained rate per client. Default: 10
	RPS float64
	// Burst is the bucket size. Default: 20
	Burst int
	// IdleTTL drops buckets of clients idle this long. Default: 10m
	IdleTTL time.Duration
	// Exempt paths are never limited (probes and metrics scrapes).
	Exempt []string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	cfg       RateLimitConfig
	extractor IPExtractor
	exempt    map[string]struct{}
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewIPRateLimiter applies defaults to cfg. A nil extractor uses RemoteAddr.
func NewIPRateLimiter(cfg RateLimitConfig, extractor IPExtractor) *IPRateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	exempt := make(map[string]struct{}, len(cfg.Exempt))
	for _, p := range cfg.Exempt {
		exempt[p] = struct{}{}
	}
	return &IPRateLimiter{
		cfg:       cfg,
		extractor: extractor,
		exempt:    exempt,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
}

// reserve takes one token for ip and returns how long the caller would have
// to wait for it; 0 means allowed.
func (l *IPRateLimiter) reserve(ip string) time.Duration {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return time.Second
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
	}
	return delay
}

// Middleware answers 429 with Retry-After once a client's bucket is empty.
// Requests whose client address cannot be determined are let through.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(l.cfg.Burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := l.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}
		ip, err := l.extractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limit: cannot determine client IP",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", limit)
		if delay := l.reserve(ip); delay > 0 {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respond.JSON(w, http.StatusTooManyRequests, respond.ErrorBody{Error: "Rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup drops idle clients and returns how many were removed.
func (l *IPRateLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.cfg.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// Len is the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (l *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := l.Cleanup()
			slog.Debug("rate limit cleanup completed",
				slog.Int("keys_removed", removed),
				slog.Int("active_keys", l.Len()))
		}
	}
}
