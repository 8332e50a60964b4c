package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/service"
	"github.com/maheshrc27/community-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) Register(r fiber.Router) {
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/:id", h.GetPost)
	r.Put("/posts/:id", h.UpdatePost)
	r.Delete("/posts/:id", h.RemovePost)
	r.Post("/posts/:id/like", h.ToggleLike)
	r.Post("/posts/:id/approve", h.ApprovePost)
	r.Post("/posts/:id/reject", h.RejectPost)
	r.Post("/posts/:id/edit/approve", h.ApproveEdit)
	r.Post("/posts/:id/edit/reject", h.RejectEdit)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var in transfer.PostCreation
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Create(c.Context(), GetIdentity(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	var q transfer.PostQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, err)
	}
	if err := transfer.Validate(&q); err != nil {
		return badRequest(c, err)
	}

	posts, err := h.s.List(c.Context(), GetIdentity(c), &q)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Get(c.Context(), GetIdentity(c), postID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var in transfer.PostUpdate
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Update(c.Context(), GetIdentity(c), postID, &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.Delete(c.Context(), GetIdentity(c), postID); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.ToggleLike(c.Context(), GetIdentity(c), postID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) ApprovePost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Approve(c.Context(), GetIdentity(c), postID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) RejectPost(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var in transfer.ModerationDecision
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.Reject(c.Context(), GetIdentity(c), postID, in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) ApproveEdit(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	post, err := h.s.ApproveEdit(c.Context(), GetIdentity(c), postID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) RejectEdit(c *fiber.Ctx) error {
	postID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	// The reason is optional here.
	var in transfer.ModerationDecision
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return badRequest(c, err)
		}
	}

	post, err := h.s.RejectEdit(c.Context(), GetIdentity(c), postID, in.Reason)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(post)
}
