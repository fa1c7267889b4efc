package middleware

import (
	"net/http"
	"time"

	"rutopia/config"
	"rutopia/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const rateLimitVisitorTTL = 3 * time.Minute

// NewWriteRateLimiter limits write requests per client IP. A zero rate disables it.
func NewWriteRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	limit := cfg.HTTP.RateLimit
	if limit.RequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit.RequestsPerSecond),
		Burst:     max(limit.Burst, 1),
		ExpiresIn: rateLimitVisitorTTL,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", "")
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return response.Error(c, http.StatusForbidden, "RATE_LIMITED", "Unable to identify client", "")
		},
	})
}
