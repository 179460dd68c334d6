package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/services"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) Guides(c *fiber.Ctx) error {
	guides, err := h.content.Guides(c.Context(), c.Query("path"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"guides": guides})
}

func (h *ContentHandler) GuideBySlug(c *fiber.Ctx) error {
	guide, err := h.content.GuideBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"guide": guide})
}

func (h *ContentHandler) Directory(c *fiber.Ctx) error {
	entries, err := h.content.Directory(c.Context(),
		c.Query("category"), c.QueryBool("recommended"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// Admin content management below; mounted behind the admin gate.

func (h *ContentHandler) CreateGuide(c *fiber.Ctx) error {
	var req services.GuideInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	guide, err := h.content.CreateGuide(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"guide": guide})
}

func (h *ContentHandler) UpdateGuide(c *fiber.Ctx) error {
	var req services.GuideInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	guide, err := h.content.UpdateGuide(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"guide": guide})
}

func (h *ContentHandler) DeleteGuide(c *fiber.Ctx) error {
	if err := h.content.DeleteGuide(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "guide deleted"})
}

func (h *ContentHandler) CreateDirectoryEntry(c *fiber.Ctx) error {
	var req services.DirectoryInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	entry, err := h.content.CreateDirectoryEntry(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (h *ContentHandler) UpdateDirectoryEntry(c *fiber.Ctx) error {
	var req services.DirectoryInput
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	entry, err := h.content.UpdateDirectoryEntry(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func (h *ContentHandler) DeleteDirectoryEntry(c *fiber.Ctx) error {
	if err := h.content.DeleteDirectoryEntry(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "directory entry deleted"})
}
