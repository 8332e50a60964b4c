package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/community-api/internal/queue"
	"github.com/maheshrc27/community-api/internal/service"
)

type MediaHandler struct {
	ms      service.MediaService
	mc      service.MediaCleanupService
	enqueue queue.Enqueuer
}

func NewMediaHandler(ms service.MediaService, mc service.MediaCleanupService, enqueue queue.Enqueuer) *MediaHandler {
	return &MediaHandler{ms: ms, mc: mc, enqueue: enqueue}
}

func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}

	result, err := h.ms.Upload(c.Context(), GetUserID(c), c.FormValue("folder", "posts"), data)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// OrphanStats previews a cleanup run. max_age is a Go duration; it defaults
// to the whole inventory.
func (h *MediaHandler) OrphanStats(c *fiber.Ctx) error {
	opts, err := cleanupOptions(c)
	if err != nil {
		return badRequest(c, err)
	}

	stats, err := h.mc.Stats(c.Context(), opts)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(stats)
}

// RunCleanup queues a cleanup run, or runs it inline with sync=true.
func (h *MediaHandler) RunCleanup(c *fiber.Ctx) error {
	opts, err := cleanupOptions(c)
	if err != nil {
		return badRequest(c, err)
	}

	if c.QueryBool("sync", false) {
		result, err := h.mc.Run(c.Context(), opts)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(result)
	}

	taskID, err := queue.EnqueueMediaCleanup(c.Context(), h.enqueue, queue.MediaCleanupPayload{
		MaxAgeSeconds: int64(opts.MaxAge / time.Second),
		RequestedBy:   GetUserID(c),
		Trigger:       "admin",
	})
	if err != nil {
		slog.Error("unable to queue media cleanup", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to queue media cleanup",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Media cleanup queued",
		"task_id": taskID,
	})
}

func cleanupOptions(c *fiber.Ctx) (service.CleanupOptions, error) {
	var opts service.CleanupOptions
	if raw := c.Query("max_age"); raw != "" {
		maxAge, err := time.ParseDuration(raw)
		if err != nil || maxAge < 0 {
			return opts, errInvalidMaxAge
		}
		opts.MaxAge = maxAge
	}
	return opts, nil
}
