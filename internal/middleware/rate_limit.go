package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds coarse rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultProxyRateLimit returns the default per-IP budget for read-only
// proxy traffic (120 requests per minute). The login and contact ledger
// gates own their own budgets; this guard only covers browsing traffic.
func DefaultProxyRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Rate limit exceeded"}`))
		}),
	)
}
