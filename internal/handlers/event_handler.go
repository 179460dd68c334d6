package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.events.List(c.Context(), c.QueryBool("upcoming"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": events})
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"event": event})
}

func (h *EventHandler) ToggleRSVP(c *fiber.Ctx) error {
	event, err := h.events.ToggleRSVP(c.Context(), c.Params("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"event": event})
}

// Create is admin-only; the route gate enforces the role.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	event, err := h.events.Create(c.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	event, err := h.events.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"event": event})
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}
