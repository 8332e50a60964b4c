package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/api/middleware"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/service"
	"github.com/maheshrc27/community-api/internal/transfer"
)

var errInvalidMaxAge = errors.New("max_age must be a positive duration such as 24h")

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := c.Locals(middleware.LocalUserID).(int64)
	return userID
}

func GetIdentity(c *fiber.Ctx) models.Identity {
	role, _ := c.Locals(middleware.LocalRole).(models.Role)
	return models.Identity{ID: GetUserID(c), Role: role}
}

// errorResponse maps a service error to its HTTP status. Unexpected errors
// are logged and hidden from the caller.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation:
		status = fiber.StatusBadRequest
	case service.KindNotFound:
		status = fiber.StatusNotFound
	case service.KindForbidden:
		status = fiber.StatusForbidden
	case service.KindState:
		status = fiber.StatusConflict
	case service.KindUnavailable:
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": service.Message(err),
	})
}

// parseBody decodes the JSON body into v and checks its validate tags. The
// error text is safe to return to the caller.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return errors.New("Unable to parse request body")
	}
	return transfer.Validate(v)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid id")
	}
	return int64(id), nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
