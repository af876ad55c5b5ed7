package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/printhuis/quoteportal-backend/api/responses"
	"github.com/printhuis/quoteportal-backend/pkg/config"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// QuoteRateLimit throttles pricing traffic per client IP with a fixed window.
func QuoteRateLimit(cfg config.RateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.QuoteWindow <= 0 || cfg.QuoteIPLimit <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			scope := "quote:" + ip
			allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.QuoteIPLimit), cfg.QuoteWindow)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"ip":             ip,
						"attempts":       count,
						"limit":          cfg.QuoteIPLimit,
						"window_seconds": int(cfg.QuoteWindow.Seconds()),
					})
					logg.Warn(logCtx, "quote.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
