package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/community-api/internal/media"
	"github.com/maheshrc27/community-api/internal/models"
)

// MediaJanitor deletes objects that an entity stopped referencing. Failures
// are logged; the scheduled cleanup picks up anything left behind.
type MediaJanitor struct {
	store   ObjectStore
	ex      *media.Extractor
	timeout time.Duration
}

func NewMediaJanitor(store ObjectStore, ex *media.Extractor, storageTimeout time.Duration) *MediaJanitor {
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &MediaJanitor{store: store, ex: ex, timeout: storageTimeout}
}

// Same reports whether a and b resolve to the same stored object.
func (j *MediaJanitor) Same(a, b models.MediaRef) bool {
	idA, okA := j.ex.PublicID(a)
	idB, okB := j.ex.PublicID(b)
	if okA || okB {
		return okA == okB && idA == idB
	}
	return a.URL == b.URL
}

// Accept checks a media value a caller wants to attach under folder. It must
// name an object the caller uploaded there, any object in folder for
// moderators, or one of held, the values the entity already carries. Values
// that are never tracked, like placeholder hosts, pass unchanged.
func (j *MediaJanitor) Accept(op string, actor models.Identity, folder string, ref models.MediaRef, held ...models.MediaRef) error {
	for _, h := range held {
		if !h.IsZero() && j.Same(ref, h) {
			return nil
		}
	}

	if ref.PublicID != "" && ref.URL != "" {
		if fromURL, ok := j.ex.FromURL(ref.URL); ok && fromURL != strings.TrimSpace(ref.PublicID) {
			return validationError(op, "media url and public id do not match")
		}
	}

	id, ok := j.ex.PublicID(ref)
	if !ok {
		return nil
	}

	prefix := media.OwnerPrefix(folder, actor.ID)
	if actor.IsModerator() {
		prefix = folder + "/"
	}
	if !strings.HasPrefix(id, prefix) || strings.Contains(id, "..") {
		return validationError(op, "media %q cannot be attached here", id)
	}
	return nil
}

// Delete removes the object behind ref, if it has one. attrs are added to the
// log lines.
func (j *MediaJanitor) Delete(ctx context.Context, ref models.MediaRef, reason string, attrs ...any) {
	id, ok := j.ex.PublicID(ref)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	attrs = append(attrs, "public_id", id, "reason", reason)
	if err := j.store.Delete(ctx, id); err != nil {
		slog.Warn("unable to delete media", append(attrs, "error", err)...)
		return
	}
	slog.Info("media deleted", attrs...)
}
