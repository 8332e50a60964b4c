package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/maheshrc27/community-api/internal/models"
)

// ContentRepository exposes the media columns of the site content sections
// that are managed outside the post workflow.
type ContentRepository interface {
	ListGalleryEvents(ctx context.Context) ([]*models.GalleryEvent, error)
	ListAlumniPhotos(ctx context.Context) ([]models.MediaRef, error)
	ListTeamMemberPhotos(ctx context.Context) ([]models.MediaRef, error)
	GetAboutUs(ctx context.Context) (*models.AboutUs, error)
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) ListGalleryEvents(ctx context.Context) ([]*models.GalleryEvent, error) {
	query := `SELECT id, title, images FROM gallery_events ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []*models.GalleryEvent
	for rows.Next() {
		var (
			event  models.GalleryEvent
			images []byte
		)
		if err := rows.Scan(&event.ID, &event.Title, &images); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if err := json.Unmarshal(images, &event.Images); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		events = append(events, &event)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return events, nil
}

func (r *contentRepository) ListAlumniPhotos(ctx context.Context) ([]models.MediaRef, error) {
	return queryMediaRefs(ctx, r.db, `SELECT photo_url, photo_public_id FROM alumni`)
}

func (r *contentRepository) ListTeamMemberPhotos(ctx context.Context) ([]models.MediaRef, error) {
	return queryMediaRefs(ctx, r.db, `SELECT photo_url, photo_public_id FROM team_members`)
}

// GetAboutUs returns the singleton about-us record, or nil when none exists.
func (r *contentRepository) GetAboutUs(ctx context.Context) (*models.AboutUs, error) {
	query := `SELECT id, image_url, image_public_id FROM about_us ORDER BY id LIMIT 1`

	var about models.AboutUs
	err := r.db.QueryRowContext(ctx, query).Scan(&about.ID, &about.Image.URL, &about.Image.PublicID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &about, nil
}

func queryMediaRefs(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.MediaRef, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var refs []models.MediaRef
	for rows.Next() {
		var ref models.MediaRef
		if err := rows.Scan(&ref.URL, &ref.PublicID); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return refs, nil
}
