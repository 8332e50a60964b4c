package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/community-api/internal/models"
)

// ErrStaleWrite is returned when a conditional update lost a race against
// another writer of the same row.
var ErrStaleWrite = errors.New("record was modified by another request")

type PostFilter struct {
	Status   models.PostStatus
	AuthorID int64
	Limit    int
	Offset   int
}

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	IncrementViews(ctx context.Context, id int64) error
	ListMediaRefs(ctx context.Context) ([]models.PostMediaRefs, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, content, author_id, status, rejection_reason, featured_image_url,
	featured_image_public_id, published_at, views, likes, is_edited, edit_history, pending_edit,
	version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post        models.Post
		publishedAt sql.NullTime
		history     []byte
		pending     []byte
	)

	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.Status, &post.RejectionReason,
		&post.FeaturedImage.URL, &post.FeaturedImage.PublicID, &publishedAt, &post.Views, pq.Array(&post.Likes),
		&post.IsEdited, &history, &pending, &post.Version, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &post.EditHistory); err != nil {
			return nil, err
		}
	}
	if len(pending) > 0 {
		post.PendingEdit = &models.PendingEdit{}
		if err := json.Unmarshal(pending, post.PendingEdit); err != nil {
			return nil, err
		}
	}

	return &post, nil
}

func encodePostJSON(post *models.Post) (history []byte, pending []byte, err error) {
	entries := post.EditHistory
	if entries == nil {
		entries = []models.EditHistoryEntry{}
	}
	if history, err = json.Marshal(entries); err != nil {
		return nil, nil, err
	}
	if post.PendingEdit != nil {
		if pending, err = json.Marshal(post.PendingEdit); err != nil {
			return nil, nil, err
		}
	}
	return history, pending, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (title, content, author_id, status, rejection_reason, featured_image_url,
			featured_image_public_id, published_at, likes, is_edited, edit_history, pending_edit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, version, created_at, updated_at
	`

	history, pending, err := encodePostJSON(post)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	likes := post.Likes
	if likes == nil {
		likes = []int64{}
	}

	err = r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.AuthorID, post.Status, post.RejectionReason,
		post.FeaturedImage.URL, post.FeaturedImage.PublicID, post.PublishedAt, pq.Array(likes), post.IsEdited,
		history, pending).Scan(&post.ID, &post.Version, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return post.ID, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

// Update writes every mutable column, conditional on the version the caller
// read. On success post.Version holds the new version.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			content = $2,
			status = $3,
			rejection_reason = $4,
			featured_image_url = $5,
			featured_image_public_id = $6,
			published_at = $7,
			likes = $8,
			is_edited = $9,
			edit_history = $10,
			pending_edit = $11,
			version = version + 1,
			updated_at = $12
		WHERE id = $13 AND version = $14
		RETURNING version, updated_at
	`

	history, pending, err := encodePostJSON(post)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	likes := post.Likes
	if likes == nil {
		likes = []int64{}
	}

	err = r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.Status, post.RejectionReason,
		post.FeaturedImage.URL, post.FeaturedImage.PublicID, post.PublishedAt, pq.Array(likes), post.IsEdited,
		history, pending, time.Now(), post.ID, post.Version).Scan(&post.Version, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaleWrite
		}
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE ($1 = '' OR status = $1)
			AND ($2 = 0 OR author_id = $2)
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, query, string(filter.Status), filter.AuthorID, limit, filter.Offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id int64) error {
	query := `UPDATE posts SET views = views + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) ListMediaRefs(ctx context.Context) ([]models.PostMediaRefs, error) {
	query := `
		SELECT id, featured_image_url, featured_image_public_id, pending_edit -> 'featured_image'
		FROM posts
		WHERE featured_image_url <> '' OR featured_image_public_id <> '' OR pending_edit IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var refs []models.PostMediaRefs
	for rows.Next() {
		var (
			ref     models.PostMediaRefs
			pending []byte
		)
		if err := rows.Scan(&ref.PostID, &ref.FeaturedImage.URL, &ref.FeaturedImage.PublicID, &pending); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if len(pending) > 0 {
			ref.PendingFeatured = &models.MediaRef{}
			if err := json.Unmarshal(pending, ref.PendingFeatured); err != nil {
				slog.Info(err.Error())
				return nil, err
			}
		}
		refs = append(refs, ref)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return refs, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
