package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/community-api/internal/media"
	"github.com/maheshrc27/community-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxUploadSize = 10 << 20

var uploadFolders = map[string]struct{}{
	"posts": {}, "profiles": {}, "announcements": {}, "gallery": {}, "alumni": {}, "team": {}, "about": {},
}

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {},
}

// MediaService stores uploaded images under folder/<owner>/. The returned
// public id is the object key; the url is built so the extractor maps it back
// to the same key.
type MediaService interface {
	Upload(ctx context.Context, ownerID int64, folder string, file []byte) (*transfer.UploadResult, error)
}

type mediaService struct {
	store   ObjectStore
	urls    *media.URLBuilder
	timeout time.Duration
	now     func() time.Time
}

func NewMediaService(store ObjectStore, urls *media.URLBuilder, storageTimeout time.Duration) MediaService {
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &mediaService{
		store:   store,
		urls:    urls,
		timeout: storageTimeout,
		now:     time.Now,
	}
}

func (s *mediaService) Upload(ctx context.Context, ownerID int64, folder string, file []byte) (*transfer.UploadResult, error) {
	const op = "upload media"

	if _, ok := uploadFolders[folder]; !ok {
		return nil, validationError(op, "unknown upload folder %q", folder)
	}
	if len(file) == 0 {
		return nil, validationError(op, "file is empty")
	}
	if len(file) > maxUploadSize {
		return nil, validationError(op, "file is larger than %d bytes", maxUploadSize)
	}

	kind, err := filetype.Match(file)
	if err != nil || kind == types.Unknown {
		return nil, validationError(op, "unsupported file type")
	}
	if _, ok := allowedImageTypes[kind.Extension]; !ok {
		return nil, validationError(op, "file type %s is not allowed", kind.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	publicID := media.OwnerPrefix(folder, ownerID) + id

	uctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Upload(uctx, publicID, file, kind.MIME.Value); err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: op, Message: "object storage is unavailable", Err: err}
	}

	return &transfer.UploadResult{
		URL:      s.urls.URL(publicID, kind.Extension, s.now()),
		PublicID: publicID,
	}, nil
}
