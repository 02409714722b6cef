// Package middleware applies rate limit policies to HTTP routes.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	platformmw "pccreg/internal/platform/middleware"
	"pccreg/internal/ratelimit/models"
	"pccreg/pkg/platform/httputil"
)

// Limiter is the check the middleware runs per request.
type Limiter interface {
	Check(ctx context.Context, policy models.Policy, identifier string) (*models.Result, error)
}

// LimitByIP enforces policy per client IP. The limit headers are set on every
// response so well-behaved clients can pace themselves.
func LimitByIP(limiter Limiter, policy models.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := platformmw.GetClientIP(r.Context())
			if ip == "" {
				ip = platformmw.ClientIPFromRequest(r)
			}

			result, err := limiter.Check(r.Context(), policy, ip)
			if result != nil {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
				if !result.ResetAt.IsZero() {
					w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
				}
			}
			if err != nil {
				if result != nil && result.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
				}
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
