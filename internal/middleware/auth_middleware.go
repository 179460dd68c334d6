package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/services"
)

// Locals keys set by the auth middleware.
const (
	LocalUser   = "user"
	LocalUserID = "user_id"
)

// Auth validates the bearer token, loads the user it names and attaches it
// to the request context for downstream handlers.
func Auth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return httperr.Unauthorized("missing token")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			return httperr.Unauthorized("invalid token format")
		}

		userID, _, err := auth.ParseToken(tokenString)
		if err != nil {
			return err
		}

		user, err := auth.UserByID(c.Context(), userID)
		if err != nil {
			return err
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Auth. Only valid behind it.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(LocalUser).(models.User)
	return user
}
