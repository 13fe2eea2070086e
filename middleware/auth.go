// middleware/auth.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the acting username from the X-User-ID
// header and attaches it to the request context. Routes under /api/ require
// it; the health check and event stream handshake do not.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := strings.TrimSpace(c.Get("X-User-ID"))

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/api/")
		if isSecured && username == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID header",
			})
		}

		c.Locals("username", username)
		return c.Next()
	}
}

// AdminOnly rejects requests from anyone but the configured admin user.
func AdminOnly() fiber.Handler {
	admin := os.Getenv("ADMIN_USERNAME")
	if admin == "" {
		admin = "Helgrim"
	}
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals("username").(string)
		if username != admin {
			log.Printf("❌ [ADMIN] %s tried to access %s", username, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// Username pulls the authenticated username back out of the context.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}
