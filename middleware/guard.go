package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tableau/store"
)

// RequireAuth rejects requests while no user is signed in.
func RequireAuth(auth *store.AuthSlice) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not_authenticated",
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests unless the signed-in user is an admin.
func RequireAdmin(auth *store.AuthSlice) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not_authenticated",
			})
		}
		if !auth.User().Admin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin_required",
			})
		}
		return c.Next()
	}
}
