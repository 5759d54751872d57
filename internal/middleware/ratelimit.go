// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iyunix/go-chatfront/internal/ratelimit"
	"github.com/iyunix/go-chatfront/internal/services"
)

// RateLimitMiddleware rejects clients that exceed the limiter's window with
// 429 and the API's {success:false, error} body.
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string, logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r)
			info := limiter.Allow(name + ":" + clientIP)

			if info.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
				w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
			}

			if !info.Allowed {
				logger.Warn("Rate limited", "route", name, "client", clientIP, "retry_after", info.RetryAfter)

				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "Too many messages. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
