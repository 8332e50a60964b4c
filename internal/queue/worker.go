package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/community-api/internal/service"
)

func (q *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeMediaCleanup, q.HandleMediaCleanupTask)
	mux.HandleFunc(TaskTypeSendEmail, q.HandleSendEmailTask)
}

func (q *Queue) HandleMediaCleanupTask(ctx context.Context, task *asynq.Task) error {
	var payload MediaCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode cleanup payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := q.mc.Run(ctx, service.CleanupOptions{
		MaxAge: time.Duration(payload.MaxAgeSeconds) * time.Second,
	})
	if err != nil {
		slog.Error("media cleanup task failed", "trigger", payload.Trigger, "error", err)
		return err
	}

	if w := task.ResultWriter(); w != nil {
		if data, err := json.Marshal(result); err == nil {
			w.Write(data)
		}
	}

	slog.Info("media cleanup task done", "trigger", payload.Trigger, "requested_by", payload.RequestedBy,
		"deleted", result.DeletedCount, "errors", result.ErrorCount)
	return nil
}

// HandleSendEmailTask validates the message and logs it. No delivery provider
// is wired yet, so nothing leaves the process.
func (q *Queue) HandleSendEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email.To == "" {
		return fmt.Errorf("email has no recipient: %w", asynq.SkipRetry)
	}

	slog.Info("email accepted, no delivery provider configured", "to", payload.Email.To, "subject", payload.Email.Subject,
		"template", payload.Email.Template)
	return nil
}
