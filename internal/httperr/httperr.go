package httperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error is a business error that already knows its HTTP status. Services
// return these; handlers just propagate, and the Fiber error handler maps
// them onto the response.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func Validation(msg string) *Error   { return newError(fiber.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return newError(fiber.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return newError(fiber.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return newError(fiber.StatusNotFound, msg) }
func Conflict(msg string) *Error     { return newError(fiber.StatusConflict, msg) }

// Internal wraps an unexpected error. The cause is kept for the server log
// but never serialized to the client.
func Internal(err error) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: "internal server error", Err: err}
}

// Handler is installed as fiber.Config.ErrorHandler. Every error escaping a
// route lands here and becomes a JSON body with the right status.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Status >= fiber.StatusInternalServerError {
			log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), appErr.Err)
		}
		return c.Status(appErr.Status).JSON(fiber.Map{"error": appErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
