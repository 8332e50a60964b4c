package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/community-api/internal/service"
)

// MediaCleanupJob is the unattended cleanup run. Only objects older than
// minAge are considered so uploads not yet attached to an entity survive.
type MediaCleanupJob struct {
	mc      service.MediaCleanupService
	minAge  time.Duration
	timeout time.Duration
}

func NewMediaCleanupJob(mc service.MediaCleanupService, minAge time.Duration) *MediaCleanupJob {
	return &MediaCleanupJob{
		mc:      mc,
		minAge:  minAge,
		timeout: 2 * time.Hour,
	}
}

func (j *MediaCleanupJob) CleanupMedia() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.mc.Run(ctx, service.CleanupOptions{MaxAge: j.minAge})
	if err != nil {
		slog.Error("scheduled media cleanup failed", "error", err)
		return
	}

	slog.Info("scheduled media cleanup done",
		"deleted", result.DeletedCount,
		"errors", result.ErrorCount,
		"orphaned", result.TotalOrphaned,
		"duration", result.Duration)
}
