package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func call(t *testing.T, app *fiber.App) (int, map[string]string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{Validation("bad input"), fiber.StatusBadRequest, "bad input"},
		{Unauthorized("no token"), fiber.StatusUnauthorized, "no token"},
		{Forbidden("admins only"), fiber.StatusForbidden, "admins only"},
		{NotFound("gone"), fiber.StatusNotFound, "gone"},
		{Conflict("duplicate"), fiber.StatusConflict, "duplicate"},
	}

	for _, tc := range cases {
		status, body := call(t, testApp(tc.err))
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.msg, body["error"])
	}
}

func TestInternalHidesCause(t *testing.T) {
	status, body := call(t, testApp(Internal(errors.New("password hash leaked"))))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, body["error"], "leaked")
}

func TestUnknownErrorBecomes500(t *testing.T) {
	status, body := call(t, testApp(errors.New("surprise")))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])
}

func TestWrappedAppErrorStillMaps(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", NotFound("user not found"))
	status, body := call(t, testApp(wrapped))

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "user not found", body["error"])
}
