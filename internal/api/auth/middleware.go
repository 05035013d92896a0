package auth

import (
	"github.com/gofiber/fiber/v2"
)

const LoginPath = "/login"

// Require redirects anonymous callers to the login form.
func Require(authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authenticator.IsAuthenticated(c) {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}
