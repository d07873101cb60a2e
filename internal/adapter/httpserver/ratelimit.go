package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Visitor entries idle out of the store after this long. The command endpoint
// is a human-driven surface; anything longer only grows the map.
const limiterIdleExpiry = 3 * time.Minute

// commandRateLimiter throttles POST /command per caller IP. Translation is
// the expensive path in this server: one call can occupy the generation
// backend for the full OLLAMA_TIMEOUT, so COMMAND_RATE_PER_SECOND and
// COMMAND_BURST bound how much of it a single source can claim. Denied
// requests get 429 before the handler, the translator, or the hub see them.
func commandRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: limiterIdleExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	})
}
