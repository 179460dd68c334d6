package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

// AuthHandler serves registration, login and the profile endpoints.
type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		ProfessionalPath string `json:"professionalPath"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	user, token, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.ProfessionalPath)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	user, token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": middleware.CurrentUser(c)})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	user, err := h.users.UpdateProfile(c.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return httperr.Validation("avatar file is required")
	}

	url, err := h.users.UploadAvatar(c.Context(), middleware.CurrentUser(c).ID, fileHeader)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"avatarUrl": url})
}
