package middleware

import (
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const callerLocal = "caller"

// RequireAuth ensures the session resolved a caller. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CallerFrom(c).Authenticated() {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// CallerFrom returns the session caller, or the zero Caller when anonymous.
func CallerFrom(c *fiber.Ctx) domain.Caller {
	caller, _ := c.Locals(callerLocal).(domain.Caller)
	return caller
}

func SetCaller(c *fiber.Ctx, caller domain.Caller) {
	c.Locals(callerLocal, caller)
}
