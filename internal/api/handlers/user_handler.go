package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/service"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

type profilePictureRequest struct {
	Picture models.MediaRef `json:"picture"`
}

type roleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=user member admin"`
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(userInfo)
}

func (h *UserHandler) UpdateProfilePicture(c *fiber.Ctx) error {
	var in profilePictureRequest
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	user, err := h.s.UpdateProfilePicture(c.Context(), GetUserID(c), in.Picture)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	userID, err := paramID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var in roleRequest
	if err := parseBody(c, &in); err != nil {
		return badRequest(c, err)
	}

	user, err := h.s.SetRole(c.Context(), GetIdentity(c), userID, in.Role)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(user)
}
