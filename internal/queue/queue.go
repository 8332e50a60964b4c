package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/community-api/internal/service"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueMediaCleanup queues an on-demand cleanup run and returns its task id.
func EnqueueMediaCleanup(ctx context.Context, client Enqueuer, payload MediaCleanupPayload) (string, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TaskTypeMediaCleanup, taskPayload)

	info, err := client.EnqueueContext(ctx, task,
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Hour))
	if err != nil {
		return "", err
	}

	slog.Info("media cleanup queued", "task_id", info.ID, "max_age_seconds", payload.MaxAgeSeconds,
		"trigger", payload.Trigger)
	return info.ID, nil
}

// EmailQueue delivers transactional email through the task queue.
type EmailQueue struct {
	client Enqueuer
}

func NewEmailQueue(client Enqueuer) *EmailQueue {
	return &EmailQueue{client: client}
}

func (q *EmailQueue) Send(ctx context.Context, e service.Email) error {
	taskPayload, err := json.Marshal(SendEmailPayload{Email: e})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeSendEmail, taskPayload)

	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return err
	}

	slog.Info("email queued", "to", e.To, "template", e.Template)
	return nil
}
