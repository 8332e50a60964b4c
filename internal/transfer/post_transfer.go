package transfer

import "github.com/maheshrc27/community-api/internal/models"

type PostCreation struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Content       string            `json:"content" validate:"required"`
	FeaturedImage *models.MediaRef  `json:"featured_image"`
	Status        models.PostStatus `json:"status" validate:"omitempty,oneof=draft pending published"`
}

// PostUpdate carries a partial edit. Nil fields are left unchanged; a non-nil
// empty FeaturedImage removes the image.
type PostUpdate struct {
	Title           *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Content         *string           `json:"content" validate:"omitempty,min=1"`
	FeaturedImage   *models.MediaRef  `json:"featured_image"`
	Status          models.PostStatus `json:"status" validate:"omitempty,oneof=draft pending published rejected"`
	RejectionReason *string           `json:"rejection_reason" validate:"omitempty,max=500"`
}

type ModerationDecision struct {
	Reason string `json:"reason" validate:"max=500"`
}

type PostQuery struct {
	Status   models.PostStatus `query:"status" validate:"omitempty,oneof=draft pending published rejected"`
	AuthorID int64             `query:"author_id" validate:"gte=0"`
	Page     int               `query:"page" validate:"gte=0"`
	Limit    int               `query:"limit" validate:"gte=0,lte=100"`
}

type AnnouncementCreation struct {
	Title    string           `json:"title" validate:"required,max=200"`
	Body     string           `json:"body" validate:"required"`
	Image    *models.MediaRef `json:"image"`
	Audience []models.Role    `json:"audience" validate:"dive,oneof=user member admin"`
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
