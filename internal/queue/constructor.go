package queue

import (
	"github.com/maheshrc27/community-api/internal/service"
)

type Queue struct {
	mc service.MediaCleanupService
}

func NewQueue(mc service.MediaCleanupService) *Queue {
	return &Queue{
		mc: mc,
	}
}

const (
	TaskTypeMediaCleanup = "media:cleanup"
	TaskTypeSendEmail    = "email:send"
)

type MediaCleanupPayload struct {
	// MaxAge in seconds; zero cleans the whole inventory.
	MaxAgeSeconds int64  `json:"max_age_seconds"`
	RequestedBy   int64  `json:"requested_by,omitempty"`
	Trigger       string `json:"trigger"`
}

type SendEmailPayload struct {
	Email service.Email `json:"email"`
}
