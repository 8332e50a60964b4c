package service

import (
	"context"
	"strings"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
	"github.com/maheshrc27/community-api/internal/transfer"
)

type AnnouncementService interface {
	Create(ctx context.Context, actor models.Identity, in *transfer.AnnouncementCreation) (*models.Announcement, int, error)
}

type announcementService struct {
	ar repository.AnnouncementRepository
	ns NotificationService
}

func NewAnnouncementService(ar repository.AnnouncementRepository, ns NotificationService) AnnouncementService {
	return &announcementService{
		ar: ar,
		ns: ns,
	}
}

// Create stores the announcement and fans it out to its audience. It returns
// the number of notifications created; an empty audience means every role.
func (s *announcementService) Create(ctx context.Context, actor models.Identity, in *transfer.AnnouncementCreation) (*models.Announcement, int, error) {
	const op = "create announcement"

	if !actor.IsModerator() {
		return nil, 0, forbiddenError(op, "only moderators can publish announcements")
	}
	if in == nil || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, 0, validationError(op, "title and body are required")
	}

	audience := in.Audience
	if len(audience) == 0 {
		audience = []models.Role{models.RoleUser, models.RoleMember, models.RoleAdmin}
	}
	for _, role := range audience {
		if !role.Valid() {
			return nil, 0, validationError(op, "unknown role %q", role)
		}
	}

	a := &models.Announcement{
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		Audience:  audience,
		CreatedBy: actor.ID,
	}
	if in.Image != nil {
		a.Image = *in.Image
	}

	if _, err := s.ar.Create(ctx, a); err != nil {
		return nil, 0, unavailableError(op, err)
	}

	notified := s.ns.NotifyAudience(ctx, audience, NotificationDraft{
		SenderID: &actor.ID,
		Type:     models.NotificationAnnouncement,
		Title:    a.Title,
		Message:  a.Body,
		Metadata: models.NotificationMetadata{AnnouncementID: &a.ID},
	})

	return a, notified, nil
}
