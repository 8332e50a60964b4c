package models

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusPublished PostStatus = "published"
	PostStatusRejected  PostStatus = "rejected"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusPublished, PostStatusRejected:
		return true
	}
	return false
}

// MediaRef points at an object in the storage provider. PublicID is the
// provider key; URL is what clients render. Either may be empty.
type MediaRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

func (m MediaRef) IsZero() bool {
	return m.URL == "" && m.PublicID == ""
}

type EditHistoryEntry struct {
	EditedAt time.Time `json:"edited_at"`
	EditedBy int64     `json:"edited_by"`
	Reason   string    `json:"reason"`
}

// PendingEdit holds an author's proposed changes to a published post until a
// moderator approves or rejects them.
type PendingEdit struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	FeaturedImage MediaRef  `json:"featured_image"`
	SubmittedAt   time.Time `json:"submitted_at"`
	SubmittedBy   int64     `json:"submitted_by"`
}

type Post struct {
	ID              int64              `db:"id" json:"id"`
	Title           string             `db:"title" json:"title"`
	Content         string             `db:"content" json:"content"`
	AuthorID        int64              `db:"author_id" json:"author_id"`
	Status          PostStatus         `db:"status" json:"status"`
	RejectionReason string             `db:"rejection_reason" json:"rejection_reason,omitempty"`
	FeaturedImage   MediaRef           `db:"featured_image" json:"featured_image"`
	PublishedAt     *time.Time         `db:"published_at" json:"published_at,omitempty"`
	Views           int64              `db:"views" json:"views"`
	Likes           []int64            `db:"likes" json:"likes"`
	IsEdited        bool               `db:"is_edited" json:"is_edited"`
	EditHistory     []EditHistoryEntry `db:"edit_history" json:"edit_history"`
	PendingEdit     *PendingEdit       `db:"pending_edit" json:"pending_edit,omitempty"`
	Version         int64              `db:"version" json:"version"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

func (p *Post) LikedBy(userID int64) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostMediaRefs is the media-only projection of a post used by the usage collector.
type PostMediaRefs struct {
	PostID          int64
	FeaturedImage   MediaRef
	PendingFeatured *MediaRef
}
