package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
	"github.com/maheshrc27/community-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	author    = models.Identity{ID: 1, Role: models.RoleMember}
	stranger  = models.Identity{ID: 2, Role: models.RoleUser}
	moderator = models.Identity{ID: 100, Role: models.RoleAdmin}
	testNow   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type postFixture struct {
	posts    *fakePostRepo
	comments *fakeCommentRepo
	notes    *fakeNotificationRepo
	store    *fakeStore
	svc      *postService
}

func newPostFixture(t *testing.T, posts ...*models.Post) *postFixture {
	t.Helper()

	f := &postFixture{
		posts:    newFakePostRepo(posts...),
		comments: &fakeCommentRepo{comments: map[int64]int64{}},
		notes:    newFakeNotificationRepo(),
		store:    newFakeStore(),
	}
	users := newFakeUserRepo(
		&models.User{ID: 1, Role: models.RoleMember},
		&models.User{ID: 2, Role: models.RoleUser},
		&models.User{ID: 100, Role: models.RoleAdmin},
		&models.User{ID: 101, Role: models.RoleAdmin},
	)
	ns := NewNotificationService(f.notes, users, &fakePublisher{})
	janitor := NewMediaJanitor(f.store, testExtractor(), time.Second)

	f.svc = NewPostService(f.posts, f.comments, ns, janitor).(*postService)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func img(id string) models.MediaRef {
	return models.MediaRef{URL: "https://media.example/upload/v1/" + id + ".jpg", PublicID: id}
}

func ptr[T any](v T) *T { return &v }

func recipients(ns []*models.Notification) []int64 {
	ids := make([]int64, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.RecipientID)
	}
	return ids
}

func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "error: %v", err)
}

func publishedPost() *models.Post {
	at := testNow.Add(-time.Hour)
	return &models.Post{
		ID: 10, Title: "Live title", Content: "Live content", AuthorID: author.ID,
		Status: models.PostStatusPublished, FeaturedImage: img("posts/live"), PublishedAt: &at, Version: 1,
	}
}

func TestCreateDowngradesPublishForNonModerator(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), author, &transfer.PostCreation{
		Title: "Hello", Content: "World", Status: models.PostStatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPending, post.Status)
	assert.Nil(t, post.PublishedAt)

	pending := f.notes.byType(models.NotificationPostPending)
	assert.ElementsMatch(t, []int64{100, 101}, recipients(pending))
	for _, n := range pending {
		require.NotNil(t, n.Metadata.PostID)
		assert.Equal(t, post.ID, *n.Metadata.PostID)
	}
}

func TestCreateByModeratorPublishes(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.svc.Create(context.Background(), moderator, &transfer.PostCreation{
		Title: "News", Content: "Body", Status: models.PostStatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
	assert.Empty(t, f.notes.byType(models.NotificationPostPending))
}

func TestCreateValidation(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "Draft", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)

	_, err = f.svc.Create(ctx, author, &transfer.PostCreation{Title: "  ", Content: "Body"})
	assertKind(t, err, KindValidation)

	_, err = f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "B", Status: models.PostStatusRejected})
	assertKind(t, err, KindValidation)
}

func TestEditDraftDeletesReplacedImage(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusDraft, FeaturedImage: img("posts/old"), Version: 1})

	post, err := f.svc.Update(context.Background(), author, 1, &transfer.PostUpdate{FeaturedImage: ptr(img("posts/1/new"))})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, "posts/1/new", f.posts.stored(1).FeaturedImage.PublicID)
	assert.Equal(t, []string{"posts/old"}, f.store.deletedKeys())
	assert.Empty(t, f.notes.byType(models.NotificationPostPending))
}

func TestSubmitDraft(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusDraft, Version: 1})

	post, err := f.svc.Update(context.Background(), author, 1, &transfer.PostUpdate{Status: models.PostStatusPending})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPending, post.Status)
	require.Len(t, post.EditHistory, 1)
	assert.Equal(t, historySubmitted, post.EditHistory[0].Reason)
	assert.Len(t, f.notes.byType(models.NotificationPostPending), 2)
}

func TestEditPendingReplacesModeratorNotifications(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "C", Status: models.PostStatusPending})
	require.NoError(t, err)
	before := f.notes.byType(models.NotificationPostPending)
	require.Len(t, before, 2)

	updated, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Title: ptr("Better title")})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPending, updated.Status)
	assert.Equal(t, "Better title", f.posts.stored(post.ID).Title)
	require.Len(t, updated.EditHistory, 1)
	assert.Equal(t, historyPendingEdit, updated.EditHistory[0].Reason)

	after := f.notes.byType(models.NotificationPostPending)
	require.Len(t, after, 2)
	for _, n := range after {
		assert.Greater(t, n.ID, before[1].ID)
	}
}

func TestApprovePendingPost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "C", Status: models.PostStatusPending})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, moderator, post.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPublished, approved.Status)
	require.NotNil(t, approved.PublishedAt)
	assert.Equal(t, testNow, *approved.PublishedAt)
	assert.Empty(t, f.notes.byType(models.NotificationPostPending))
	assert.Equal(t, []int64{author.ID}, recipients(f.notes.byType(models.NotificationPostApproved)))
}

func TestModerationPreconditions(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, moderator, 1)
	assertKind(t, err, KindState)

	_, err = f.svc.Approve(ctx, author, 1)
	assertKind(t, err, KindForbidden)

	_, err = f.svc.Approve(ctx, moderator, 999)
	assertKind(t, err, KindNotFound)

	_, err = f.svc.ApproveEdit(ctx, moderator, 1)
	assertKind(t, err, KindState)

	_, err = f.svc.RejectEdit(ctx, author, 1, "no")
	assertKind(t, err, KindForbidden)

	stored := f.posts.stored(1)
	assert.Equal(t, models.PostStatusDraft, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

func TestRejectPendingPost(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusPending, FeaturedImage: img("posts/cover"), Version: 1})
	ctx := context.Background()

	_, err := f.svc.Reject(ctx, moderator, 1, "   ")
	assertKind(t, err, KindValidation)

	post, err := f.svc.Reject(ctx, moderator, 1, "duplicate content")
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusRejected, post.Status)
	assert.Equal(t, "duplicate content", post.RejectionReason)
	assert.True(t, f.posts.stored(1).FeaturedImage.IsZero())
	assert.Equal(t, []string{"posts/cover"}, f.store.deletedKeys())

	rejected := f.notes.byType(models.NotificationPostRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, author.ID, rejected[0].RecipientID)
	assert.Equal(t, "duplicate content", rejected[0].Metadata.Reason)
}

func TestRequestEditLeavesLivePostUntouched(t *testing.T) {
	f := newPostFixture(t, publishedPost())

	_, err := f.svc.Update(context.Background(), author, 10, &transfer.PostUpdate{
		Title: ptr("Proposed title"), FeaturedImage: ptr(img("posts/1/proposed")),
	})
	require.NoError(t, err)

	stored := f.posts.stored(10)
	assert.Equal(t, "Live title", stored.Title)
	assert.Equal(t, "Live content", stored.Content)
	assert.Equal(t, "posts/live", stored.FeaturedImage.PublicID)
	assert.Equal(t, models.PostStatusPublished, stored.Status)

	require.NotNil(t, stored.PendingEdit)
	assert.Equal(t, "Proposed title", stored.PendingEdit.Title)
	assert.Equal(t, "Live content", stored.PendingEdit.Content)
	assert.Equal(t, "posts/1/proposed", stored.PendingEdit.FeaturedImage.PublicID)
	assert.Equal(t, testNow, stored.PendingEdit.SubmittedAt)
	assert.Equal(t, author.ID, stored.PendingEdit.SubmittedBy)

	assert.Empty(t, f.store.deletedKeys())
	assert.ElementsMatch(t, []int64{100, 101}, recipients(f.notes.byType(models.NotificationPostEditRequest)))
}

func TestSecondEditRequestOverwritesSnapshot(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{
		Title: ptr("First proposal"), FeaturedImage: ptr(img("posts/1/proposed")),
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, author, 10, &transfer.PostUpdate{
		Content: ptr("Second content"), FeaturedImage: ptr(img("posts/1/proposed2")),
	})
	require.NoError(t, err)

	stored := f.posts.stored(10)
	require.NotNil(t, stored.PendingEdit)
	assert.Equal(t, "First proposal", stored.PendingEdit.Title)
	assert.Equal(t, "Second content", stored.PendingEdit.Content)
	assert.Equal(t, "posts/1/proposed2", stored.PendingEdit.FeaturedImage.PublicID)
	assert.Equal(t, "Live title", stored.Title)

	assert.Equal(t, []string{"posts/1/proposed"}, f.store.deletedKeys())
	assert.Len(t, f.notes.byType(models.NotificationPostEditRequest), 2)
}

func TestApproveEditAppliesSnapshot(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{
		Title: ptr("New title"), Content: ptr("New content"), FeaturedImage: ptr(img("posts/1/new")),
	})
	require.NoError(t, err)

	post, err := f.svc.ApproveEdit(ctx, moderator, 10)
	require.NoError(t, err)

	assert.Equal(t, "New title", post.Title)
	assert.Equal(t, "New content", post.Content)
	assert.Equal(t, "posts/1/new", post.FeaturedImage.PublicID)
	assert.Nil(t, post.PendingEdit)
	assert.True(t, post.IsEdited)
	require.NotEmpty(t, post.EditHistory)
	last := post.EditHistory[len(post.EditHistory)-1]
	assert.Equal(t, historyEditApprove, last.Reason)
	assert.Equal(t, author.ID, last.EditedBy)

	assert.Equal(t, []string{"posts/live"}, f.store.deletedKeys())
	assert.Empty(t, f.notes.byType(models.NotificationPostEditRequest))
	assert.Equal(t, []int64{author.ID}, recipients(f.notes.byType(models.NotificationPostEditApproved)))
}

func TestRejectEditDiscardsProposal(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{
		Title: ptr("New title"), FeaturedImage: ptr(img("posts/1/new")),
	})
	require.NoError(t, err)

	post, err := f.svc.RejectEdit(ctx, moderator, 10, "off topic")
	require.NoError(t, err)

	assert.Equal(t, "Live title", post.Title)
	assert.Equal(t, "posts/live", post.FeaturedImage.PublicID)
	assert.Nil(t, f.posts.stored(10).PendingEdit)
	assert.Equal(t, []string{"posts/1/new"}, f.store.deletedKeys())
	assert.Empty(t, f.notes.byType(models.NotificationPostEditRequest))

	rejected := f.notes.byType(models.NotificationPostEditRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "off topic", rejected[0].Metadata.Reason)
}

func TestRejectedPostEditAndResubmit(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusRejected, RejectionReason: "too short", Version: 1})
	ctx := context.Background()

	post, err := f.svc.Update(ctx, author, 1, &transfer.PostUpdate{Content: ptr("Much longer content")})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusRejected, post.Status)
	assert.Equal(t, "too short", post.RejectionReason)
	assert.Empty(t, f.notes.byType(models.NotificationPostPending))

	post, err = f.svc.Update(ctx, author, 1, &transfer.PostUpdate{Status: models.PostStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPending, post.Status)
	assert.Empty(t, post.RejectionReason)
	require.Len(t, post.EditHistory, 1)
	assert.Equal(t, historyResubmitted, post.EditHistory[0].Reason)
	assert.Len(t, f.notes.byType(models.NotificationPostPending), 2)
}

func TestModeratorDirectEdit(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusPending, FeaturedImage: img("posts/old"), Version: 1})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, moderator, 1, &transfer.PostUpdate{Status: models.PostStatusRejected})
	assertKind(t, err, KindValidation)

	post, err := f.svc.Update(ctx, moderator, 1, &transfer.PostUpdate{
		Title: ptr("Fixed title"), FeaturedImage: ptr(img("posts/1/new")), Status: models.PostStatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, "Fixed title", post.Title)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.IsEdited)
	require.Len(t, post.EditHistory, 1)
	assert.Equal(t, historyAdminEdit, post.EditHistory[0].Reason)
	assert.Equal(t, moderator.ID, post.EditHistory[0].EditedBy)
	assert.Equal(t, []string{"posts/old"}, f.store.deletedKeys())
}

func TestModeratorDirectEditDropsPendingEditWhenUnpublishing(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{FeaturedImage: ptr(img("posts/1/proposed"))})
	require.NoError(t, err)

	post, err := f.svc.Update(ctx, moderator, 10, &transfer.PostUpdate{Status: models.PostStatusDraft})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, f.posts.stored(10).PendingEdit)
	assert.Equal(t, []string{"posts/1/proposed"}, f.store.deletedKeys())
	assert.Empty(t, f.notes.byType(models.NotificationPostEditRequest))
}

func TestModeratorImageSwapDuringPendingEdit(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{Title: ptr("Author title")})
	require.NoError(t, err)

	post, err := f.svc.Update(ctx, moderator, 10, &transfer.PostUpdate{FeaturedImage: ptr(img("posts/mod"))})
	require.NoError(t, err)
	assert.Equal(t, "posts/mod", post.FeaturedImage.PublicID)
	assert.Equal(t, []string{"posts/live"}, f.store.deletedKeys())

	stored := f.posts.stored(10)
	require.NotNil(t, stored.PendingEdit)
	assert.Equal(t, "posts/mod", stored.PendingEdit.FeaturedImage.PublicID)

	post, err = f.svc.ApproveEdit(ctx, moderator, 10)
	require.NoError(t, err)
	assert.Equal(t, "Author title", post.Title)
	assert.Equal(t, "posts/mod", post.FeaturedImage.PublicID)
	assert.Equal(t, []string{"posts/live"}, f.store.deletedKeys())
}

func TestForeignMediaIsRejected(t *testing.T) {
	f := newPostFixture(t, publishedPost(),
		&models.Post{ID: 1, Title: "Draft", Content: "C", AuthorID: author.ID, Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	tests := []struct {
		name string
		ref  models.MediaRef
	}{
		{"other folder", models.MediaRef{PublicID: "profiles/someone-else"}},
		{"other owner", img("posts/2/theirs")},
		{"parent path", img("posts/1/../2/theirs")},
		{"url and id disagree", models.MediaRef{
			URL: "https://media.example/upload/v1/posts/1/mine.jpg", PublicID: "posts/2/theirs",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "C", FeaturedImage: ptr(tt.ref)})
			assertKind(t, err, KindValidation)

			_, err = f.svc.Update(ctx, author, 1, &transfer.PostUpdate{FeaturedImage: ptr(tt.ref)})
			assertKind(t, err, KindValidation)

			_, err = f.svc.Update(ctx, author, 10, &transfer.PostUpdate{FeaturedImage: ptr(tt.ref)})
			assertKind(t, err, KindValidation)
		})
	}

	assert.Empty(t, f.store.deletedKeys())
	assert.Nil(t, f.posts.stored(10).PendingEdit)

	// Images the post already carries stay acceptable.
	_, err := f.svc.Update(ctx, author, 10, &transfer.PostUpdate{FeaturedImage: ptr(img("posts/live"))})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, moderator, 1, &transfer.PostUpdate{FeaturedImage: ptr(img("posts/2/theirs"))})
	require.NoError(t, err)
}

func TestUpdateAuthorization(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, stranger, 1, &transfer.PostUpdate{Title: ptr("Mine now")})
	assertKind(t, err, KindForbidden)

	_, err = f.svc.Update(ctx, author, 1, &transfer.PostUpdate{RejectionReason: ptr("self rejected")})
	assertKind(t, err, KindForbidden)

	err = f.svc.Delete(ctx, stranger, 1)
	assertKind(t, err, KindForbidden)

	assert.Equal(t, "T", f.posts.stored(1).Title)
}

func TestDeleteCascades(t *testing.T) {
	post := publishedPost()
	post.PendingEdit = &models.PendingEdit{Title: "P", Content: "P", FeaturedImage: img("posts/1/proposed")}
	f := newPostFixture(t, post)
	f.comments.comments[10] = 3
	ctx := context.Background()

	for _, typ := range []models.NotificationType{models.NotificationPostLiked, models.NotificationPostEditRequest, models.NotificationPostApproved} {
		_, err := f.svc.ns.Notify(ctx, []int64{author.ID}, NotificationDraft{Type: typ, Title: "x",
			Metadata: models.NotificationMetadata{PostID: ptr(int64(10))}})
		require.NoError(t, err)
	}
	_, err := f.svc.ns.Notify(ctx, []int64{author.ID}, NotificationDraft{Type: models.NotificationSystem, Title: "unrelated"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, moderator, 10))

	assert.Nil(t, f.posts.stored(10))
	assert.Empty(t, f.comments.comments)
	assert.Equal(t, []string{"posts/live", "posts/1/proposed"}, f.store.deletedKeys())

	f.notes.mu.Lock()
	defer f.notes.mu.Unlock()
	require.Len(t, f.notes.items, 1)
	assert.Equal(t, "unrelated", f.notes.items[0].Title)
}

func TestMediaFailureNeverFailsTransition(t *testing.T) {
	f := newPostFixture(t, &models.Post{ID: 1, Title: "T", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusPending, FeaturedImage: img("posts/cover"), Version: 1})
	f.store.failKeys["posts/cover"] = true

	post, err := f.svc.Reject(context.Background(), moderator, 1, "spam")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusRejected, post.Status)
	assert.Len(t, f.notes.byType(models.NotificationPostRejected), 1)

	require.NoError(t, f.svc.Delete(context.Background(), author, 1))
}

func TestNotificationCleanupFailureDoesNotBlockDelete(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	f.notes.removeErr = errBoom

	require.NoError(t, f.svc.Delete(context.Background(), author, 10))
	assert.Nil(t, f.posts.stored(10))
	assert.Equal(t, []string{"posts/live"}, f.store.deletedKeys())
}

func TestCommentCleanupFailureLeavesPostAndMedia(t *testing.T) {
	f := newPostFixture(t, publishedPost())
	f.comments.err = errBoom

	err := f.svc.Delete(context.Background(), author, 10)
	assertKind(t, err, KindUnavailable)
	assert.NotNil(t, f.posts.stored(10))
	assert.Empty(t, f.store.deletedKeys())
}

func TestStaleWriteIsReportedAsConflict(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "C", Status: models.PostStatusPending})
	require.NoError(t, err)

	// A concurrent writer bumps the version between our read and write.
	stale := f.posts.stored(post.ID)
	require.NoError(t, f.posts.Update(ctx, f.posts.stored(post.ID)))
	err = f.svc.save(ctx, "approve post", stale)
	assertKind(t, err, KindState)
	assert.ErrorIs(t, err, repository.ErrStaleWrite)

	f.posts.updateErr = errBoom
	_, err = f.svc.Approve(ctx, moderator, post.ID)
	assertKind(t, err, KindUnavailable)
}

func TestGetVisibility(t *testing.T) {
	published := publishedPost()
	published.PendingEdit = &models.PendingEdit{Title: "secret"}
	f := newPostFixture(t, published, &models.Post{ID: 1, Title: "Draft", Content: "C", AuthorID: author.ID,
		Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	_, err := f.svc.Get(ctx, stranger, 1)
	assertKind(t, err, KindNotFound)

	draft, err := f.svc.Get(ctx, author, 1)
	require.NoError(t, err)
	assert.Equal(t, "Draft", draft.Title)

	_, err = f.svc.Get(ctx, moderator, 1)
	require.NoError(t, err)

	post, err := f.svc.Get(ctx, stranger, 10)
	require.NoError(t, err)
	assert.Nil(t, post.PendingEdit)
	assert.Equal(t, int64(1), post.Views)

	post, err = f.svc.Get(ctx, author, 10)
	require.NoError(t, err)
	assert.NotNil(t, post.PendingEdit)
	assert.Equal(t, int64(2), f.posts.stored(10).Views)
}

func TestList(t *testing.T) {
	f := newPostFixture(t, publishedPost(),
		&models.Post{ID: 1, Title: "Draft", AuthorID: author.ID, Status: models.PostStatusDraft, Version: 1},
		&models.Post{ID: 2, Title: "Pending", AuthorID: stranger.ID, Status: models.PostStatusPending, Version: 1})
	ctx := context.Background()

	posts, err := f.svc.List(ctx, stranger, nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(10), posts[0].ID)

	_, err = f.svc.List(ctx, stranger, &transfer.PostQuery{Status: models.PostStatusPending})
	assertKind(t, err, KindForbidden)

	posts, err = f.svc.List(ctx, moderator, &transfer.PostQuery{Status: models.PostStatusPending})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), posts[0].ID)

	posts, err = f.svc.List(ctx, author, &transfer.PostQuery{AuthorID: author.ID})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestListOtherAuthorDefaultsToPublished(t *testing.T) {
	f := newPostFixture(t, publishedPost(),
		&models.Post{ID: 1, Title: "Draft", AuthorID: author.ID, Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	posts, err := f.svc.List(ctx, stranger, &transfer.PostQuery{AuthorID: author.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(10), posts[0].ID)

	_, err = f.svc.List(ctx, stranger, &transfer.PostQuery{AuthorID: author.ID, Status: models.PostStatusDraft})
	assertKind(t, err, KindForbidden)

	posts, err = f.svc.List(ctx, moderator, &transfer.PostQuery{AuthorID: author.ID})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestToggleLike(t *testing.T) {
	f := newPostFixture(t, publishedPost(),
		&models.Post{ID: 1, Title: "Draft", AuthorID: author.ID, Status: models.PostStatusDraft, Version: 1})
	ctx := context.Background()

	post, err := f.svc.ToggleLike(ctx, stranger, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{stranger.ID}, post.Likes)

	post, err = f.svc.ToggleLike(ctx, stranger, 10)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)

	assert.Len(t, f.notes.byType(models.NotificationPostLiked), 1)

	_, err = f.svc.ToggleLike(ctx, stranger, 1)
	assertKind(t, err, KindState)
}

func TestStatusAlwaysWithinClosedSet(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.svc.Create(ctx, author, &transfer.PostCreation{Title: "T", Content: "C"})
	require.NoError(t, err)

	steps := []func() error{
		func() error {
			_, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Status: "archived"})
			return err
		},
		func() error {
			_, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Status: models.PostStatusPending})
			return err
		},
		func() error {
			_, err := f.svc.Reject(ctx, moderator, post.ID, "nope")
			return err
		},
		func() error {
			_, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Status: models.PostStatusDraft})
			return err
		},
		func() error {
			_, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Status: models.PostStatusPublished})
			return err
		},
		func() error {
			_, err := f.svc.Approve(ctx, moderator, post.ID)
			return err
		},
		func() error {
			_, err := f.svc.Update(ctx, author, post.ID, &transfer.PostUpdate{Title: ptr("Edit")})
			return err
		},
		func() error {
			_, err := f.svc.RejectEdit(ctx, moderator, post.ID, "")
			return err
		},
	}

	for _, step := range steps {
		_ = step()
		stored := f.posts.stored(post.ID)
		require.NotNil(t, stored)
		assert.True(t, stored.Status.Valid(), "status %q", stored.Status)
		if stored.PendingEdit != nil {
			assert.Equal(t, models.PostStatusPublished, stored.Status)
		}
	}
	assert.Equal(t, models.PostStatusPublished, f.posts.stored(post.ID).Status)
}
