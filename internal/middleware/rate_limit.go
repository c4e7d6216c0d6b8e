package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// CategoryLimiter is the per-category, DB-backed limiter behind the auth
// endpoints.
type CategoryLimiter interface {
	Allow(ctx context.Context, ip string, category models.RouteCategory) error
}

// LimitByCategory records the request against its route category and rejects
// with 429 once the trailing-window ceiling is exceeded.
func LimitByCategory(limiter CategoryLimiter, category models.RouteCategory, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := pkghttp.ExtractClientIP(r, ipConfig)

			if err := limiter.Allow(r.Context(), ip, category); err != nil {
				if errors.Is(err, models.ErrRateLimited) {
					pkghttp.WriteTooManyRequests(w, "More than allowed attempts in a short period. Please try again later.")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates a coarse in-process limiter in front of the whole
// API, a backstop ahead of the per-category DB limiter.
func RateLimitByIP(requestsPerMinute int) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
		}),
	)
}
