package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

type ChecklistHandler struct {
	checklist *services.ChecklistService
}

func NewChecklistHandler(checklist *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklist: checklist}
}

func (h *ChecklistHandler) List(c *fiber.Ctx) error {
	items, err := h.checklist.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// SetCompleted serves both PUT and PATCH on /:itemKey.
func (h *ChecklistHandler) SetCompleted(c *fiber.Ctx) error {
	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if req.Completed == nil {
		return httperr.Validation("completed flag is required")
	}

	item, err := h.checklist.SetCompleted(c.Context(), middleware.CurrentUser(c).ID,
		c.Params("itemKey"), *req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"item": item})
}
