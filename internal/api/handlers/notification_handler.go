package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/service"
)

type NotificationHandler struct {
	s service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{s: service}
}

func (h *NotificationHandler) Register(r fiber.Router) {
	r.Get("/notifications", h.ListNotifications)
	r.Get("/notifications/unread-count", h.UnreadCount)
	r.Post("/notifications/read-all", h.MarkAllRead)
	r.Delete("/notifications/read", h.ClearRead)
	r.Post("/notifications/:id/read", h.MarkRead)
	r.Delete("/notifications/:id", h.RemoveNotification)
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	page, err := h.s.List(c.Context(), GetUserID(c), c.QueryInt("page", 1), c.QueryInt("limit", 20),
		c.QueryBool("unread", false))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(page)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.s.UnreadCount(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.MarkRead(c.Context(), GetUserID(c), id); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	updated, err := h.s.MarkAllRead(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) RemoveNotification(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.s.Delete(c.Context(), GetUserID(c), id); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) ClearRead(c *fiber.Ctx) error {
	removed, err := h.s.ClearRead(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"removed": removed})
}
