package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kairos-backend/internal/auth"
)

const agentContextKey = "runtimeAgent"

// Auth validates the runtime's bearer token and records which agent
// deployment is calling.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(agentContextKey, claims.Agent)
		return c.Next()
	}
}

// CallingAgent returns the agent identity set by Auth, if any.
func CallingAgent(c *fiber.Ctx) string {
	if v, ok := c.Locals(agentContextKey).(string); ok {
		return v
	}
	return ""
}
