package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
)

// Publisher pushes a persisted notification to the recipient's connected
// sessions. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type NotificationDraft struct {
	SenderID *int64
	Type     models.NotificationType
	Title    string
	Message  string
	Metadata models.NotificationMetadata
}

type NotificationPage struct {
	Items       []*models.Notification `json:"items"`
	Page        int                    `json:"page"`
	Limit       int                    `json:"limit"`
	UnreadCount int64                  `json:"unread_count"`
}

type NotificationService interface {
	// Notify stores one notification per recipient and publishes each one.
	// Persistence failures for individual recipients are joined into the
	// returned error; the successfully stored records are always returned.
	Notify(ctx context.Context, recipients []int64, d NotificationDraft) ([]*models.Notification, error)
	NotifyModerators(ctx context.Context, d NotificationDraft) int
	NotifyAudience(ctx context.Context, roles []models.Role, d NotificationDraft) int
	DeleteForPost(ctx context.Context, postID int64, types ...models.NotificationType) (int64, error)

	List(ctx context.Context, userID int64, page, limit int, unreadOnly bool) (*NotificationPage, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
	ClearRead(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	n   repository.NotificationRepository
	u   repository.UserRepository
	pub Publisher
}

func NewNotificationService(n repository.NotificationRepository, u repository.UserRepository, pub Publisher) NotificationService {
	return &notificationService{
		n:   n,
		u:   u,
		pub: pub,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipients []int64, d NotificationDraft) ([]*models.Notification, error) {
	if !d.Type.Valid() {
		return nil, validationError("notify", "unknown notification type %q", d.Type)
	}
	if d.Title == "" {
		return nil, validationError("notify", "notification title is required")
	}

	var (
		created  []*models.Notification
		failures []error
	)

	for _, recipientID := range recipients {
		n := &models.Notification{
			RecipientID: recipientID,
			SenderID:    d.SenderID,
			Type:        d.Type,
			Title:       d.Title,
			Message:     d.Message,
			Metadata:    d.Metadata,
		}

		if _, err := s.n.Create(ctx, n); err != nil {
			failures = append(failures, fmt.Errorf("recipient %d: %w", recipientID, err))
			continue
		}
		created = append(created, n)

		if s.pub == nil {
			continue
		}
		if err := s.pub.Publish(ctx, n); err != nil {
			slog.Warn("notification delivery failed", "recipient_id", recipientID, "notification_id", n.ID, "error", err)
		}
	}

	return created, errors.Join(failures...)
}

func (s *notificationService) NotifyModerators(ctx context.Context, d NotificationDraft) int {
	return s.NotifyAudience(ctx, []models.Role{models.RoleAdmin}, d)
}

// NotifyAudience fans d out to every user holding one of roles. Failures are
// logged and never returned, the triggering action must not fail because of them.
func (s *notificationService) NotifyAudience(ctx context.Context, roles []models.Role, d NotificationDraft) int {
	recipients, err := s.u.ListIDsByRole(ctx, roles...)
	if err != nil {
		slog.Error("unable to resolve notification audience", "roles", roles, "type", d.Type, "error", err)
		return 0
	}

	created, err := s.Notify(ctx, recipients, d)
	if err != nil {
		slog.Error("notification fan-out partially failed", "type", d.Type, "created", len(created),
			"audience", len(recipients), "error", err)
	}
	return len(created)
}

func (s *notificationService) DeleteForPost(ctx context.Context, postID int64, types ...models.NotificationType) (int64, error) {
	removed, err := s.n.RemoveByPostID(ctx, postID, types...)
	if err != nil {
		return 0, unavailableError("delete post notifications", err)
	}
	return removed, nil
}

func (s *notificationService) List(ctx context.Context, userID int64, page, limit int, unreadOnly bool) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := s.n.ListByRecipient(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, unavailableError("list notifications", err)
	}

	unread, err := s.n.CountUnread(ctx, userID)
	if err != nil {
		return nil, unavailableError("list notifications", err)
	}

	if items == nil {
		items = []*models.Notification{}
	}

	return &NotificationPage{Items: items, Page: page, Limit: limit, UnreadCount: unread}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.n.CountUnread(ctx, userID)
	if err != nil {
		return 0, unavailableError("count notifications", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := s.n.MarkRead(ctx, userID, id)
	if err != nil {
		return unavailableError("mark notification read", err)
	}
	if !ok {
		return notFoundError("mark notification read", ErrNotificationNotFound)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	updated, err := s.n.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, unavailableError("mark all notifications read", err)
	}
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.n.Remove(ctx, userID, id)
	if err != nil {
		return unavailableError("delete notification", err)
	}
	if !ok {
		return notFoundError("delete notification", ErrNotificationNotFound)
	}
	return nil
}

func (s *notificationService) ClearRead(ctx context.Context, userID int64) (int64, error) {
	removed, err := s.n.RemoveRead(ctx, userID)
	if err != nil {
		return 0, unavailableError("clear read notifications", err)
	}
	return removed, nil
}
