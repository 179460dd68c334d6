package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/services"
)

// AdminHandler serves the admin dashboard routes. All of them sit behind
// the admin role gate.
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.admin.GetUser(c.Context(), c.Params("userid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.GatherStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
