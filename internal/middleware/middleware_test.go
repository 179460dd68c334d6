package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/services"
)

func protectedApp() *fiber.App {
	auth := services.NewAuthService(nil, "test-secret", time.Hour, 4)
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Get("/secret", Auth(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestAuthRejectsMissingToken(t *testing.T) {
	app := protectedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/secret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsNonBearerHeader(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	issuer := services.NewAuthService(nil, "test-secret", -time.Minute, 4)
	token, err := issuer.GenerateToken("64f000000000000000000001", "user")
	require.NoError(t, err)

	app := protectedApp()
	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func adminApp(role string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	attach := func(c *fiber.Ctx) error {
		c.Locals(LocalUser, models.User{Name: "t", Role: role})
		return c.Next()
	}
	app.Get("/admin", attach, RequireAdmin, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestRequireAdminBlocksRegularUser(t *testing.T) {
	resp, err := adminApp(models.RoleUser).Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	resp, err := adminApp(models.RoleAdmin).Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
