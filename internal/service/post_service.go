package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
	"github.com/maheshrc27/community-api/internal/transfer"
)

const postMediaFolder = "posts"

const (
	historySubmitted   = "Submitted for review"
	historyPendingEdit = "Updated while pending"
	historyResubmitted = "Resubmitted after rejection"
	historyEditApprove = "Edit approved"
	historyAdminEdit   = "Admin edit"
)

// PostService drives a post through draft, pending, published and rejected.
// Every transition checks its preconditions first, then deletes media that is
// no longer referenced, then persists, then notifies. Media deletion and
// notification failures are logged and never fail the transition.
type PostService interface {
	Create(ctx context.Context, actor models.Identity, in *transfer.PostCreation) (*models.Post, error)
	Update(ctx context.Context, actor models.Identity, postID int64, in *transfer.PostUpdate) (*models.Post, error)
	Approve(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error)
	Reject(ctx context.Context, actor models.Identity, postID int64, reason string) (*models.Post, error)
	ApproveEdit(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error)
	RejectEdit(ctx context.Context, actor models.Identity, postID int64, reason string) (*models.Post, error)
	Delete(ctx context.Context, actor models.Identity, postID int64) error

	Get(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error)
	List(ctx context.Context, actor models.Identity, q *transfer.PostQuery) ([]*models.Post, error)
	ToggleLike(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error)
}

type postService struct {
	pr    repository.PostRepository
	cr    repository.CommentRepository
	ns    NotificationService
	media *MediaJanitor
	now   func() time.Time
}

func NewPostService(
	pr repository.PostRepository,
	cr repository.CommentRepository,
	ns NotificationService,
	janitor *MediaJanitor) PostService {
	return &postService{
		pr:    pr,
		cr:    cr,
		ns:    ns,
		media: janitor,
		now:   time.Now,
	}
}

func (s *postService) Create(ctx context.Context, actor models.Identity, in *transfer.PostCreation) (*models.Post, error) {
	const op = "create post"

	if in == nil {
		return nil, validationError(op, "post data is required")
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, validationError(op, "title is required")
	}
	if content == "" {
		return nil, validationError(op, "content is required")
	}

	status := in.Status
	switch status {
	case "":
		status = models.PostStatusDraft
	case models.PostStatusDraft, models.PostStatusPending:
	case models.PostStatusPublished:
		if !actor.IsModerator() {
			status = models.PostStatusPending
		}
	default:
		return nil, validationError(op, "status %q cannot be requested for a new post", status)
	}

	if in.FeaturedImage != nil {
		if err := s.media.Accept(op, actor, postMediaFolder, *in.FeaturedImage); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Title:    title,
		Content:  content,
		AuthorID: actor.ID,
		Status:   status,
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	if _, err := s.pr.Create(ctx, post); err != nil {
		return nil, unavailableError(op, err)
	}

	if post.Status == models.PostStatusPending {
		s.notifyModeratorsPending(ctx, post, actor)
	}

	return post, nil
}

// Update applies an author edit according to the post's current status. For
// moderators it is a direct edit that bypasses the per-status rules.
func (s *postService) Update(ctx context.Context, actor models.Identity, postID int64, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "update post"

	if in == nil {
		return nil, validationError(op, "post data is required")
	}
	if err := validateUpdate(op, in); err != nil {
		return nil, err
	}

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}

	if !actor.IsModerator() {
		if post.AuthorID != actor.ID {
			return nil, forbiddenError(op, "only the author or a moderator can edit this post")
		}
		if in.RejectionReason != nil {
			return nil, forbiddenError(op, "only a moderator can set a rejection reason")
		}
	}

	if in.FeaturedImage != nil {
		held := []models.MediaRef{post.FeaturedImage}
		if post.PendingEdit != nil {
			held = append(held, post.PendingEdit.FeaturedImage)
		}
		if err := s.media.Accept(op, actor, postMediaFolder, *in.FeaturedImage, held...); err != nil {
			return nil, err
		}
	}

	if actor.IsModerator() {
		return s.moderatorEdit(ctx, actor, post, in)
	}

	switch post.Status {
	case models.PostStatusDraft:
		return s.editDraft(ctx, actor, post, in)
	case models.PostStatusPending:
		return s.editPending(ctx, actor, post, in)
	case models.PostStatusPublished:
		return s.requestEdit(ctx, actor, post, in)
	case models.PostStatusRejected:
		return s.editRejected(ctx, actor, post, in)
	}
	return nil, stateError(op, "post has unknown status %q", post.Status)
}

func (s *postService) editDraft(ctx context.Context, actor models.Identity, post *models.Post, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "edit draft"

	submit := false
	switch in.Status {
	case "", models.PostStatusDraft:
	case models.PostStatusPending, models.PostStatusPublished:
		submit = true
	default:
		return nil, stateError(op, "a draft cannot move to %s", in.Status)
	}

	stale := s.replacedImage(post.FeaturedImage, in.FeaturedImage)
	applyUpdate(post, in)
	if submit {
		post.Status = models.PostStatusPending
		post.RejectionReason = ""
		s.appendHistory(post, actor.ID, historySubmitted)
	}

	s.deleteMedia(ctx, stale, post.ID, "replaced draft image")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	if submit {
		s.notifyModeratorsPending(ctx, post, actor)
	}
	return post, nil
}

func (s *postService) editPending(ctx context.Context, actor models.Identity, post *models.Post, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "edit pending post"

	switch in.Status {
	case "", models.PostStatusPending, models.PostStatusPublished:
	default:
		return nil, stateError(op, "a pending post cannot move to %s", in.Status)
	}

	stale := s.replacedImage(post.FeaturedImage, in.FeaturedImage)
	applyUpdate(post, in)
	s.appendHistory(post, actor.ID, historyPendingEdit)

	s.deleteMedia(ctx, stale, post.ID, "replaced pending image")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostPending)
	s.notifyModeratorsPending(ctx, post, actor)
	return post, nil
}

// requestEdit stores the proposed changes of a published post without
// touching the live fields. A second request overwrites the first.
func (s *postService) requestEdit(ctx context.Context, actor models.Identity, post *models.Post, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "request post edit"

	switch in.Status {
	case "", models.PostStatusPublished, models.PostStatusPending:
	default:
		return nil, stateError(op, "a published post cannot move to %s", in.Status)
	}

	base := models.PendingEdit{
		Title:         post.Title,
		Content:       post.Content,
		FeaturedImage: post.FeaturedImage,
	}
	previous := post.PendingEdit
	if previous != nil {
		base = *previous
	}

	proposal := &models.PendingEdit{
		Title:         base.Title,
		Content:       base.Content,
		FeaturedImage: base.FeaturedImage,
		SubmittedAt:   s.now(),
		SubmittedBy:   actor.ID,
	}
	if in.Title != nil {
		proposal.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		proposal.Content = strings.TrimSpace(*in.Content)
	}
	if in.FeaturedImage != nil {
		proposal.FeaturedImage = *in.FeaturedImage
	}

	var superseded models.MediaRef
	if previous != nil && !s.sameMedia(previous.FeaturedImage, post.FeaturedImage) &&
		!s.sameMedia(previous.FeaturedImage, proposal.FeaturedImage) {
		superseded = previous.FeaturedImage
	}

	post.PendingEdit = proposal

	s.deleteMedia(ctx, superseded, post.ID, "superseded proposed image")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostEditRequest)
	s.ns.NotifyModerators(ctx, NotificationDraft{
		SenderID: &actor.ID,
		Type:     models.NotificationPostEditRequest,
		Title:    "Edit requested for a published post",
		Message:  fmt.Sprintf("An edit to %q is waiting for review.", post.Title),
		Metadata: models.NotificationMetadata{PostID: &post.ID},
	})
	return post, nil
}

func (s *postService) editRejected(ctx context.Context, actor models.Identity, post *models.Post, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "edit rejected post"

	resubmit := false
	switch in.Status {
	case "", models.PostStatusRejected:
	case models.PostStatusPending, models.PostStatusPublished:
		resubmit = true
	default:
		return nil, stateError(op, "a rejected post cannot move to %s", in.Status)
	}

	stale := s.replacedImage(post.FeaturedImage, in.FeaturedImage)
	applyUpdate(post, in)
	if resubmit {
		post.Status = models.PostStatusPending
		post.RejectionReason = ""
		s.appendHistory(post, actor.ID, historyResubmitted)
	}

	s.deleteMedia(ctx, stale, post.ID, "replaced rejected image")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	if resubmit {
		s.notifyModeratorsPending(ctx, post, actor)
	}
	return post, nil
}

func (s *postService) moderatorEdit(ctx context.Context, actor models.Identity, post *models.Post, in *transfer.PostUpdate) (*models.Post, error) {
	const op = "moderator edit"

	target := post.Status
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, validationError(op, "unknown status %q", in.Status)
		}
		target = in.Status
	}

	reason := post.RejectionReason
	if in.RejectionReason != nil {
		reason = strings.TrimSpace(*in.RejectionReason)
	}
	if target == models.PostStatusRejected && reason == "" {
		return nil, validationError(op, "a rejection reason is required")
	}

	stale := s.replacedImage(post.FeaturedImage, in.FeaturedImage)
	applyUpdate(post, in)

	// A kept pending edit that still carries the replaced image follows the
	// replacement, otherwise approving it would restore a deleted object.
	if post.PendingEdit != nil && target == models.PostStatusPublished && !stale.IsZero() &&
		s.sameMedia(post.PendingEdit.FeaturedImage, stale) {
		post.PendingEdit.FeaturedImage = post.FeaturedImage
	}

	var discarded models.MediaRef
	hadPendingEdit := post.PendingEdit != nil
	if hadPendingEdit && target != models.PostStatusPublished {
		if !s.sameMedia(post.PendingEdit.FeaturedImage, post.FeaturedImage) {
			discarded = post.PendingEdit.FeaturedImage
		}
		post.PendingEdit = nil
	}

	post.Status = target
	if target == models.PostStatusRejected {
		post.RejectionReason = reason
	} else {
		post.RejectionReason = ""
	}
	if target == models.PostStatusPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}
	post.IsEdited = true
	s.appendHistory(post, actor.ID, historyAdminEdit)

	s.deleteMedia(ctx, stale, post.ID, "replaced by moderator")
	s.deleteMedia(ctx, discarded, post.ID, "pending edit discarded by moderator")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	if hadPendingEdit && post.PendingEdit == nil {
		s.dropNotifications(ctx, post.ID, models.NotificationPostEditRequest)
	}
	return post, nil
}

func (s *postService) Approve(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error) {
	const op = "approve post"

	if !actor.IsModerator() {
		return nil, forbiddenError(op, "only moderators can approve posts")
	}

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, stateError(op, "only pending posts can be approved, post is %s", post.Status)
	}

	now := s.now()
	post.Status = models.PostStatusPublished
	post.PublishedAt = &now
	post.RejectionReason = ""

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostPending)
	s.notifyAuthor(ctx, post, actor, models.NotificationPostApproved, "Your post was published",
		fmt.Sprintf("%q has been approved and is now live.", post.Title), "")
	return post, nil
}

func (s *postService) Reject(ctx context.Context, actor models.Identity, postID int64, reason string) (*models.Post, error) {
	const op = "reject post"

	if !actor.IsModerator() {
		return nil, forbiddenError(op, "only moderators can reject posts")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError(op, "a rejection reason is required")
	}

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, stateError(op, "only pending posts can be rejected, post is %s", post.Status)
	}

	s.deleteMedia(ctx, post.FeaturedImage, post.ID, "post rejected")

	post.FeaturedImage = models.MediaRef{}
	post.Status = models.PostStatusRejected
	post.RejectionReason = reason

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostPending)
	s.notifyAuthor(ctx, post, actor, models.NotificationPostRejected, "Your post was rejected",
		fmt.Sprintf("%q was not approved: %s", post.Title, reason), reason)
	return post, nil
}

// ApproveEdit applies the pending edit to the live post. The previous image
// is deleted only here, once the edit can no longer be rejected.
func (s *postService) ApproveEdit(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error) {
	const op = "approve post edit"

	if !actor.IsModerator() {
		return nil, forbiddenError(op, "only moderators can approve edits")
	}

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished || post.PendingEdit == nil {
		return nil, stateError(op, "post has no pending edit")
	}

	edit := post.PendingEdit
	var stale models.MediaRef
	if !s.sameMedia(post.FeaturedImage, edit.FeaturedImage) {
		stale = post.FeaturedImage
	}

	post.Title = edit.Title
	post.Content = edit.Content
	post.FeaturedImage = edit.FeaturedImage
	post.IsEdited = true
	s.appendHistory(post, edit.SubmittedBy, historyEditApprove)
	post.PendingEdit = nil

	s.deleteMedia(ctx, stale, post.ID, "replaced by approved edit")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostEditRequest)
	s.notifyAuthor(ctx, post, actor, models.NotificationPostEditApproved, "Your edit was approved",
		fmt.Sprintf("Your changes to %q are now live.", post.Title), "")
	return post, nil
}

// RejectEdit discards the pending edit and deletes the proposed image. The
// live post is untouched.
func (s *postService) RejectEdit(ctx context.Context, actor models.Identity, postID int64, reason string) (*models.Post, error) {
	const op = "reject post edit"

	if !actor.IsModerator() {
		return nil, forbiddenError(op, "only moderators can reject edits")
	}

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished || post.PendingEdit == nil {
		return nil, stateError(op, "post has no pending edit")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}

	var proposed models.MediaRef
	if !s.sameMedia(post.PendingEdit.FeaturedImage, post.FeaturedImage) {
		proposed = post.PendingEdit.FeaturedImage
	}
	post.PendingEdit = nil

	s.deleteMedia(ctx, proposed, post.ID, "edit rejected")

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	s.dropNotifications(ctx, post.ID, models.NotificationPostEditRequest)
	s.notifyAuthor(ctx, post, actor, models.NotificationPostEditRejected, "Your edit was rejected",
		fmt.Sprintf("Your changes to %q were not approved: %s", post.Title, reason), reason)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, actor models.Identity, postID int64) error {
	const op = "delete post"

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsModerator() {
		return forbiddenError(op, "only the author or a moderator can delete this post")
	}

	// Comments go first: when they cannot be removed nothing else is touched.
	comments, err := s.cr.RemoveByPostID(ctx, post.ID)
	if err != nil {
		return unavailableError(op, err)
	}

	s.deleteMedia(ctx, post.FeaturedImage, post.ID, "post deleted")
	if post.PendingEdit != nil && !s.sameMedia(post.PendingEdit.FeaturedImage, post.FeaturedImage) {
		s.deleteMedia(ctx, post.PendingEdit.FeaturedImage, post.ID, "post deleted")
	}

	notifications, err := s.ns.DeleteForPost(ctx, post.ID)
	if err != nil {
		slog.Warn("unable to delete post notifications", "post_id", post.ID, "error", err)
	}

	if err := s.pr.Remove(ctx, post.ID); err != nil {
		return unavailableError(op, err)
	}

	slog.Info("post deleted", "post_id", post.ID, "actor_id", actor.ID,
		"comments_removed", comments, "notifications_removed", notifications)
	return nil
}

// Get returns a post visible to actor. Unpublished posts are only visible to
// their author and moderators; everyone else gets not-found.
func (s *postService) Get(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error) {
	const op = "get post"

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.PostStatusPublished {
		if post.AuthorID != actor.ID && !actor.IsModerator() {
			return nil, notFoundError(op, ErrPostNotFound)
		}
		return post, nil
	}

	if err := s.pr.IncrementViews(ctx, post.ID); err != nil {
		slog.Warn("unable to count post view", "post_id", post.ID, "error", err)
	} else {
		post.Views++
	}

	if !actor.IsModerator() && post.AuthorID != actor.ID {
		post.PendingEdit = nil
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, actor models.Identity, q *transfer.PostQuery) ([]*models.Post, error) {
	const op = "list posts"

	if q == nil {
		q = &transfer.PostQuery{}
	}

	// Unfiltered listings show the published feed, except to moderators and
	// to authors listing their own posts.
	status := q.Status
	if status == "" && (q.AuthorID == 0 || (q.AuthorID != actor.ID && !actor.IsModerator())) {
		status = models.PostStatusPublished
	}
	if status != models.PostStatusPublished && !actor.IsModerator() && q.AuthorID != actor.ID {
		return nil, forbiddenError(op, "only moderators can list unpublished posts of other authors")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, err := s.pr.List(ctx, repository.PostFilter{
		Status:   status,
		AuthorID: q.AuthorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, unavailableError(op, err)
	}

	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) ToggleLike(ctx context.Context, actor models.Identity, postID int64) (*models.Post, error) {
	const op = "like post"

	post, err := s.load(ctx, op, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, stateError(op, "only published posts can be liked")
	}

	liked := !post.LikedBy(actor.ID)
	if liked {
		post.Likes = append(post.Likes, actor.ID)
	} else {
		likes := post.Likes[:0]
		for _, id := range post.Likes {
			if id != actor.ID {
				likes = append(likes, id)
			}
		}
		post.Likes = likes
	}

	if err := s.save(ctx, op, post); err != nil {
		return nil, err
	}

	if liked && post.AuthorID != actor.ID {
		s.notifyAuthor(ctx, post, actor, models.NotificationPostLiked, "Someone liked your post",
			fmt.Sprintf("%q received a new like.", post.Title), "")
	}
	return post, nil
}

func validateUpdate(op string, in *transfer.PostUpdate) error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return validationError(op, "title cannot be empty")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return validationError(op, "content cannot be empty")
	}
	if in.Status != "" && !in.Status.Valid() {
		return validationError(op, "unknown status %q", in.Status)
	}
	return nil
}

func applyUpdate(post *models.Post, in *transfer.PostUpdate) {
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = strings.TrimSpace(*in.Content)
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
}

func (s *postService) load(ctx context.Context, op string, postID int64) (*models.Post, error) {
	if postID <= 0 {
		return nil, validationError(op, "post id is not valid")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, unavailableError(op, err)
	}
	if post == nil {
		return nil, notFoundError(op, ErrPostNotFound)
	}
	return post, nil
}

func (s *postService) save(ctx context.Context, op string, post *models.Post) error {
	err := s.pr.Update(ctx, post)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStaleWrite) {
		return &Error{Kind: KindState, Op: op, Message: "post was modified by another request, reload and retry", Err: err}
	}
	return unavailableError(op, err)
}

func (s *postService) appendHistory(post *models.Post, editorID int64, reason string) {
	post.EditHistory = append(post.EditHistory, models.EditHistoryEntry{
		EditedAt: s.now(),
		EditedBy: editorID,
		Reason:   reason,
	})
}

// replacedImage returns the current image when next replaces or removes it.
func (s *postService) replacedImage(current models.MediaRef, next *models.MediaRef) models.MediaRef {
	if next == nil || s.sameMedia(current, *next) {
		return models.MediaRef{}
	}
	return current
}

func (s *postService) sameMedia(a, b models.MediaRef) bool {
	return s.media.Same(a, b)
}

func (s *postService) deleteMedia(ctx context.Context, ref models.MediaRef, postID int64, reason string) {
	s.media.Delete(ctx, ref, reason, "post_id", postID)
}

func (s *postService) dropNotifications(ctx context.Context, postID int64, types ...models.NotificationType) {
	if _, err := s.ns.DeleteForPost(ctx, postID, types...); err != nil {
		slog.Warn("unable to delete stale notifications", "post_id", postID, "types", types, "error", err)
	}
}

func (s *postService) notifyModeratorsPending(ctx context.Context, post *models.Post, actor models.Identity) {
	s.ns.NotifyModerators(ctx, NotificationDraft{
		SenderID: &actor.ID,
		Type:     models.NotificationPostPending,
		Title:    "New post awaiting review",
		Message:  fmt.Sprintf("%q is waiting for approval.", post.Title),
		Metadata: models.NotificationMetadata{PostID: &post.ID},
	})
}

func (s *postService) notifyAuthor(ctx context.Context, post *models.Post, actor models.Identity,
	typ models.NotificationType, title, message, reason string) {
	_, err := s.ns.Notify(ctx, []int64{post.AuthorID}, NotificationDraft{
		SenderID: &actor.ID,
		Type:     typ,
		Title:    title,
		Message:  message,
		Metadata: models.NotificationMetadata{PostID: &post.ID, Reason: reason},
	})
	if err != nil {
		slog.Warn("unable to notify post author", "post_id", post.ID, "type", typ, "error", err)
	}
}
