package middleware

import (
	"time"

	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/pkg/ratelimit"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RateLimit throttles mutating requests per caller (per IP when anonymous).
// Reads pass through untouched.
func RateLimit(l *ratelimit.Limiter, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		key := "ip:" + c.IP()
		if caller := CallerFrom(c); caller.Authenticated() {
			key = "user:" + caller.ID.String()
		}
		if !l.Allow(key, time.Now()) {
			m.RateLimited()
			log.Warn().Str("key", key).Str("path", c.Path()).Msg("Rate limited")
			return response.Error(c, "Too many requests", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
