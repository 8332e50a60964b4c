package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/community-api/internal/media"
	"golang.org/x/time/rate"
)

const (
	sampleOrphanLimit  = 20
	deleteConcurrency  = 10
	defaultCleanupSize = 100

	defaultStorageTimeout = 10 * time.Second
)

type CleanupOptions struct {
	// MaxAge limits the run to objects uploaded more than MaxAge ago. Zero
	// means the whole inventory.
	MaxAge time.Duration `json:"max_age"`
}

type CleanupResult struct {
	DeletedCount  int           `json:"deleted_count"`
	ErrorCount    int           `json:"error_count"`
	TotalOrphaned int           `json:"total_orphaned"`
	DatabaseCount int           `json:"database_count"`
	ProviderCount int           `json:"provider_count"`
	Duration      time.Duration `json:"duration"`
}

type CleanupStats struct {
	DatabaseCount int           `json:"database_count"`
	ProviderCount int           `json:"provider_count"`
	OrphanCount   int           `json:"orphan_count"`
	SampleOrphans []string      `json:"sample_orphans"`
	Duration      time.Duration `json:"duration"`
}

// UsageSource returns the identifiers referenced by live data.
type UsageSource interface {
	Collect(ctx context.Context) (media.Set, error)
}

type MediaCleanupService interface {
	// Run deletes every provider object that no entity references.
	Run(ctx context.Context, opts CleanupOptions) (*CleanupResult, error)
	// Stats previews a run without deleting anything.
	Stats(ctx context.Context, opts CleanupOptions) (*CleanupStats, error)
}

type mediaCleanupService struct {
	usage      UsageSource
	store      ObjectStore
	batchSize  int
	batchPause time.Duration
	timeout    time.Duration
	now        func() time.Time
}

func NewMediaCleanupService(
	usage UsageSource,
	store ObjectStore,
	batchSize int,
	batchPause time.Duration,
	storageTimeout time.Duration) MediaCleanupService {
	if batchSize <= 0 {
		batchSize = defaultCleanupSize
	}
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &mediaCleanupService{
		usage:      usage,
		store:      store,
		batchSize:  batchSize,
		batchPause: batchPause,
		timeout:    storageTimeout,
		now:        time.Now,
	}
}

func (s *mediaCleanupService) Run(ctx context.Context, opts CleanupOptions) (*CleanupResult, error) {
	const op = "media cleanup"
	started := s.now()

	used, inventory, err := s.diffInputs(ctx, op, opts)
	if err != nil {
		return nil, err
	}

	orphans := orphanIDs(inventory, used)
	result := &CleanupResult{
		TotalOrphaned: len(orphans),
		DatabaseCount: used.Len(),
		ProviderCount: inventory.Len(),
	}

	slog.Info("media cleanup started", "orphans", len(orphans), "database_count", result.DatabaseCount,
		"provider_count", result.ProviderCount, "max_age", opts.MaxAge)

	// One batch per pause; the first batch starts immediately.
	limiter := rate.NewLimiter(rate.Every(s.batchPause), 1)

	for start := 0; start < len(orphans); start += s.batchSize {
		if err := limiter.Wait(ctx); err != nil {
			result.Duration = s.now().Sub(started)
			slog.Warn("media cleanup interrupted", "deleted", result.DeletedCount, "errors", result.ErrorCount, "error", err)
			return result, unavailableError(op, err)
		}

		end := min(start+s.batchSize, len(orphans))
		deleted, failed := s.deleteBatch(ctx, orphans[start:end])
		result.DeletedCount += deleted
		result.ErrorCount += failed
	}

	result.Duration = s.now().Sub(started)
	slog.Info("media cleanup finished", "deleted", result.DeletedCount, "errors", result.ErrorCount,
		"duration", result.Duration)
	return result, nil
}

func (s *mediaCleanupService) Stats(ctx context.Context, opts CleanupOptions) (*CleanupStats, error) {
	started := s.now()

	used, inventory, err := s.diffInputs(ctx, "media cleanup stats", opts)
	if err != nil {
		return nil, err
	}

	orphans := orphanIDs(inventory, used)
	sample := orphans
	if len(sample) > sampleOrphanLimit {
		sample = sample[:sampleOrphanLimit]
	}

	return &CleanupStats{
		DatabaseCount: used.Len(),
		ProviderCount: inventory.Len(),
		OrphanCount:   len(orphans),
		SampleOrphans: sample,
		Duration:      s.now().Sub(started),
	}, nil
}

func (s *mediaCleanupService) diffInputs(ctx context.Context, op string, opts CleanupOptions) (media.Set, media.Set, error) {
	used, err := s.usage.Collect(ctx)
	if err != nil {
		return nil, nil, unavailableError(op, err)
	}

	var olderThan time.Time
	if opts.MaxAge > 0 {
		olderThan = s.now().Add(-opts.MaxAge)
	}

	inventory := media.NewSet()
	for objects, err := range inventoryPages(ctx, s.store, olderThan, s.timeout) {
		if err != nil {
			return nil, nil, &Error{Kind: KindUnavailable, Op: op, Message: "object storage is unavailable", Err: err}
		}
		for _, obj := range objects {
			inventory.Add(obj.Key)
		}
	}

	return used, inventory, nil
}

// deleteBatch removes ids concurrently. A failed delete is counted and logged
// and never stops the batch.
func (s *mediaCleanupService) deleteBatch(ctx context.Context, ids []string) (int, int) {
	var (
		wg      sync.WaitGroup
		deleted atomic.Int64
		failed  atomic.Int64
	)

	semaphore := make(chan struct{}, deleteConcurrency)

	for _, id := range ids {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(id string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			dctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if err := s.store.Delete(dctx, id); err != nil {
				failed.Add(1)
				slog.Warn("unable to delete orphaned media", "public_id", id, "error", err)
				return
			}
			deleted.Add(1)
		}(id)
	}

	wg.Wait()
	return int(deleted.Load()), int(failed.Load())
}

func orphanIDs(inventory, used media.Set) []string {
	orphans := media.NewSet()
	for id := range inventory {
		if !used.Has(id) {
			orphans.Add(id)
		}
	}
	return orphans.Sorted()
}
