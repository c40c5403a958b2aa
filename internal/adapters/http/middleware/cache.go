package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NoCacheHeaders sets no-cache headers. Page views carry per-session data.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		c.Set("Vary", "Cookie")
		return c.Next()
	}
}
