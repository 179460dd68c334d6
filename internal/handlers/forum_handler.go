package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/services"
)

type ForumHandler struct {
	forums *services.ForumService
}

func NewForumHandler(forums *services.ForumService) *ForumHandler {
	return &ForumHandler{forums: forums}
}

func (h *ForumHandler) List(c *fiber.Ctx) error {
	forums, err := h.forums.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"forums": forums})
}

func (h *ForumHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	forum, err := h.forums.Create(c.Context(), middleware.CurrentUser(c).ID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"forum": forum})
}

func (h *ForumHandler) Detail(c *fiber.Ctx) error {
	detail, err := h.forums.Detail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (h *ForumHandler) CreateThread(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	thread, err := h.forums.CreateThread(c.Context(), c.Params("id"),
		middleware.CurrentUser(c), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"thread": thread})
}

func (h *ForumHandler) ThreadPosts(c *fiber.Ctx) error {
	thread, posts, err := h.forums.ThreadPosts(c.Context(), c.Params("threadId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"thread": thread, "posts": posts})
}

func (h *ForumHandler) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	post, err := h.forums.CreatePost(c.Context(), c.Params("threadId"),
		middleware.CurrentUser(c), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

func (h *ForumHandler) DeleteThread(c *fiber.Ctx) error {
	if err := h.forums.DeleteThread(c.Context(), c.Params("threadId"), middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "thread deleted"})
}

// DeleteForum is admin-only; the route gate enforces the role.
func (h *ForumHandler) DeleteForum(c *fiber.Ctx) error {
	if err := h.forums.DeleteForum(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "forum deleted"})
}
