package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware rejects anchor scoped callers
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized",
			})
		}

		if !principal.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Access denied: anchor users cannot modify anchors",
			})
		}

		return c.Next()
	}
}
