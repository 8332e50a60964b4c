package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/community-api/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	MarkRead(ctx context.Context, recipientID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	Remove(ctx context.Context, recipientID, id int64) (bool, error)
	RemoveRead(ctx context.Context, recipientID int64) (int64, error)
	// RemoveByPostID deletes notifications referencing postID. With no types
	// every notification for the post is removed.
	RemoveByPostID(ctx context.Context, postID int64, types ...models.NotificationType) (int64, error)
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (recipient_id, sender_id, type, title, message, metadata, post_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	err = r.db.QueryRowContext(ctx, query, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, metadata,
		n.Metadata.PostID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return n.ID, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, type, title, message, metadata, is_read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR is_read = false)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, recipientID, unreadOnly, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var (
			n        models.Notification
			senderID sql.NullInt64
			readAt   sql.NullTime
			metadata []byte
		)
		err := rows.Scan(&n.ID, &n.RecipientID, &senderID, &n.Type, &n.Title, &n.Message, &metadata, &n.IsRead,
			&readAt, &n.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		if senderID.Valid {
			n.SenderID = &senderID.Int64
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id int64) (bool, error) {
	query := `
		UPDATE notifications
		SET is_read = true,
			read_at = COALESCE(read_at, $1)
		WHERE id = $2 AND recipient_id = $3
	`
	return r.execAffected(ctx, query, time.Now(), id, recipientID)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true,
			read_at = $1
		WHERE recipient_id = $2 AND is_read = false
	`
	return r.execCount(ctx, query, time.Now(), recipientID)
}

func (r *notificationRepository) Remove(ctx context.Context, recipientID, id int64) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`
	return r.execAffected(ctx, query, id, recipientID)
}

func (r *notificationRepository) RemoveRead(ctx context.Context, recipientID int64) (int64, error) {
	query := `DELETE FROM notifications WHERE recipient_id = $1 AND is_read = true`
	return r.execCount(ctx, query, recipientID)
}

func (r *notificationRepository) RemoveByPostID(ctx context.Context, postID int64, types ...models.NotificationType) (int64, error) {
	query := `DELETE FROM notifications WHERE post_id = $1 AND ($2::text[] IS NULL OR type = ANY($2))`

	var typeNames []string
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	return r.execCount(ctx, query, postID, pq.Array(typeNames))
}

func (r *notificationRepository) execAffected(ctx context.Context, query string, args ...any) (bool, error) {
	count, err := r.execCount(ctx, query, args...)
	return count > 0, err
}

func (r *notificationRepository) execCount(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}
