package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

type BudgetHandler struct {
	budget *services.BudgetService
}

func NewBudgetHandler(budget *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budget: budget}
}

func (h *BudgetHandler) List(c *fiber.Ctx) error {
	entries, err := h.budget.List(c.Context(), middleware.CurrentUser(c).ID,
		c.Query("type"), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (h *BudgetHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.budget.Summary(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	var req services.BudgetInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	entry, err := h.budget.Create(c.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (h *BudgetHandler) Update(c *fiber.Ctx) error {
	var req services.BudgetInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	entry, err := h.budget.Update(c.Context(), middleware.CurrentUser(c).ID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func (h *BudgetHandler) Delete(c *fiber.Ctx) error {
	if err := h.budget.Delete(c.Context(), middleware.CurrentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "budget entry deleted"})
}
