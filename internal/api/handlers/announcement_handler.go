package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/service"
	"github.com/maheshrc27/community-api/internal/transfer"
)

type AnnouncementHandler struct {
	s service.AnnouncementService
}

func NewAnnouncementHandler(service service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{s: service}
}

func (h *AnnouncementHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var in transfer.AnnouncementCreation
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	announcement, notified, err := h.s.Create(c.Context(), GetIdentity(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"announcement": announcement,
		"notified":     notified,
	})
}
