package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/community-api/internal/models"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) (int64, error)
	ListImages(ctx context.Context) ([]models.MediaRef, error)
}

type announcementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) (int64, error) {
	query := `
		INSERT INTO announcements (title, body, image_url, image_public_id, audience, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	audience := make([]string, 0, len(a.Audience))
	for _, role := range a.Audience {
		audience = append(audience, string(role))
	}

	err := r.db.QueryRowContext(ctx, query, a.Title, a.Body, a.Image.URL, a.Image.PublicID, pq.Array(audience),
		a.CreatedBy).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return a.ID, nil
}

func (r *announcementRepository) ListImages(ctx context.Context) ([]models.MediaRef, error) {
	query := `
		SELECT image_url, image_public_id
		FROM announcements
		WHERE image_url <> '' OR image_public_id <> ''
	`
	return queryMediaRefs(ctx, r.db, query)
}
