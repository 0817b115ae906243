package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/httputil"
	"github.com/nickverneck/FrameForge/internal/telemetry"
)

// Middleware enforces a per-client-IP request limit over a one-minute
// sliding window. It expects to run after RealIP so RemoteAddr reflects the
// true client. When the limiter is disabled or nil the middleware is a
// pass-through.
func Middleware(l *Limiter, cfg config.RateLimitConfig, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil || !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
			return next
		}

		limit := int64(cfg.RequestsPerMinute)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Check(r.Context(), clientIP(r), limit, time.Minute)
			if err != nil {
				// Check already fails open; this is belt and braces.
				slog.Warn("rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", res.ResetAt.Unix()))

			if !res.Allowed {
				metrics.RateLimited()
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())))
				}
				httputil.WriteTooManyRequests(w, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
