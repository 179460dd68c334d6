package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
)

// RequireAdmin gates a route group to admin users. Must be mounted behind
// Auth so the user is already attached.
func RequireAdmin(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user.Role != models.RoleAdmin {
		return httperr.Forbidden("admin access required")
	}
	return c.Next()
}
