package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Rooms(c *fiber.Ctx) error {
	rooms, err := h.chat.Rooms(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// Messages is the polling fallback: ?since=<RFC3339> returns only newer
// messages.
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httperr.Validation("since must be an RFC3339 timestamp")
		}
		since = parsed
	}

	msgs, err := h.chat.MessagesSince(c.Context(), c.Params("room"), since)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	msg, err := h.chat.Send(c.Context(), c.Params("room"), middleware.CurrentUser(c), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	marked, err := h.chat.MarkRead(c.Context(), c.Params("room"), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"marked": marked})
}
