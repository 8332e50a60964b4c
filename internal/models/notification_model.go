package models

import "time"

type NotificationType string

const (
	NotificationPostPending      NotificationType = "post_pending"
	NotificationPostApproved     NotificationType = "post_approved"
	NotificationPostRejected     NotificationType = "post_rejected"
	NotificationPostEditRequest  NotificationType = "post_edit_request"
	NotificationPostEditApproved NotificationType = "post_edit_approved"
	NotificationPostEditRejected NotificationType = "post_edit_rejected"
	NotificationPostLiked        NotificationType = "post_liked"
	NotificationAnnouncement     NotificationType = "announcement"
	NotificationSystem           NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationPostPending, NotificationPostApproved, NotificationPostRejected,
		NotificationPostEditRequest, NotificationPostEditApproved, NotificationPostEditRejected,
		NotificationPostLiked, NotificationAnnouncement, NotificationSystem:
		return true
	}
	return false
}

type NotificationMetadata struct {
	PostID         *int64            `json:"post_id,omitempty"`
	AnnouncementID *int64            `json:"announcement_id,omitempty"`
	CommentID      *int64            `json:"comment_id,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

type Notification struct {
	ID          int64                `db:"id" json:"id"`
	RecipientID int64                `db:"recipient_id" json:"recipient_id"`
	SenderID    *int64               `db:"sender_id" json:"sender_id,omitempty"`
	Type        NotificationType     `db:"type" json:"type"`
	Title       string               `db:"title" json:"title"`
	Message     string               `db:"message" json:"message"`
	Metadata    NotificationMetadata `db:"metadata" json:"metadata"`
	IsRead      bool                 `db:"is_read" json:"is_read"`
	ReadAt      *time.Time           `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}
