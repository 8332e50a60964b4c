package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/community-api/configs"
	"github.com/maheshrc27/community-api/internal/api/middleware"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/service"
	"github.com/maheshrc27/community-api/internal/transfer"
	"github.com/maheshrc27/community-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// stubPosts implements only what the tests call; anything else panics.
type stubPosts struct {
	service.PostService
	actor    models.Identity
	created  *transfer.PostCreation
	reason   string
	approveE error
}

func (s *stubPosts) Create(_ context.Context, actor models.Identity, in *transfer.PostCreation) (*models.Post, error) {
	s.actor = actor
	s.created = in
	return &models.Post{ID: 1, Title: in.Title, Status: models.PostStatusPending, AuthorID: actor.ID}, nil
}

func (s *stubPosts) Approve(_ context.Context, actor models.Identity, id int64) (*models.Post, error) {
	s.actor = actor
	if s.approveE != nil {
		return nil, s.approveE
	}
	return &models.Post{ID: id, Status: models.PostStatusPublished}, nil
}

func (s *stubPosts) RejectEdit(_ context.Context, _ models.Identity, id int64, reason string) (*models.Post, error) {
	s.reason = reason
	return &models.Post{ID: id, Status: models.PostStatusPublished}, nil
}

func (s *stubPosts) Get(context.Context, models.Identity, int64) (*models.Post, error) {
	return nil, &service.Error{Kind: service.KindNotFound, Op: "get post", Message: "post not found"}
}

type stubCleanup struct {
	runs []service.CleanupOptions
}

func (s *stubCleanup) Run(_ context.Context, opts service.CleanupOptions) (*service.CleanupResult, error) {
	s.runs = append(s.runs, opts)
	return &service.CleanupResult{DeletedCount: 2, TotalOrphaned: 2}, nil
}

func (s *stubCleanup) Stats(context.Context, service.CleanupOptions) (*service.CleanupStats, error) {
	return &service.CleanupStats{OrphanCount: 3, SampleOrphans: []string{"a", "b", "c"}}, nil
}

type stubEnqueuer struct {
	tasks []*asynq.Task
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "task-42"}, nil
}

func newTestApp(posts service.PostService, cleanup service.MediaCleanupService, enq *stubEnqueuer) *fiber.App {
	cfg := config.Config{SecretKey: testSecret, CookieName: "session"}
	app := fiber.New()

	api := app.Group("/api", middleware.NewAuthMiddleware(cfg).AuthMiddleware())
	NewPostHandler(posts).Register(api)

	media := NewMediaHandler(nil, cleanup, enq)
	admin := api.Group("/admin", middleware.RequireModerator())
	admin.Get("/media/orphans", media.OrphanStats)
	admin.Post("/media/cleanup", media.RunCleanup)
	return app
}

func request(t *testing.T, app *fiber.App, method, target string, who *models.Identity, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if who != nil {
		token, err := utils.GenerateToken(testSecret, *who, time.Hour)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

var (
	member = &models.Identity{ID: 7, Role: models.RoleMember}
	admin  = &models.Identity{ID: 9, Role: models.RoleAdmin}
)

func TestAuthRequired(t *testing.T) {
	app := newTestApp(&stubPosts{}, &stubCleanup{}, &stubEnqueuer{})

	resp, body := request(t, app, http.MethodGet, "/api/posts/1", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing token or cookie", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreatePostPassesIdentity(t *testing.T) {
	posts := &stubPosts{}
	app := newTestApp(posts, &stubCleanup{}, &stubEnqueuer{})

	resp, body := request(t, app, http.MethodPost, "/api/posts", member, `{"title":"Hi","content":"There","status":"published"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, *member, posts.actor)
	assert.Equal(t, models.PostStatusPublished, posts.created.Status)

	resp, _ = request(t, app, http.MethodPost, "/api/posts", member, `{"title":"","content":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPost, "/api/posts", member, `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		kind   service.ErrorKind
		status int
	}{
		{service.KindValidation, fiber.StatusBadRequest},
		{service.KindNotFound, fiber.StatusNotFound},
		{service.KindForbidden, fiber.StatusForbidden},
		{service.KindState, fiber.StatusConflict},
		{service.KindUnavailable, fiber.StatusBadGateway},
		{0, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("kind %s", tt.kind), func(t *testing.T) {
			var err error = &service.Error{Kind: tt.kind, Op: "approve post", Message: "nope"}
			if tt.kind == 0 {
				err = fmt.Errorf("driver exploded")
			}
			app := newTestApp(&stubPosts{approveE: err}, &stubCleanup{}, &stubEnqueuer{})

			resp, body := request(t, app, http.MethodPost, "/api/posts/3/approve", admin, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.kind == 0 {
				assert.Equal(t, "internal error", body["error"])
			} else {
				assert.Equal(t, "nope", body["error"])
			}
		})
	}
}

func TestPostRoutes(t *testing.T) {
	posts := &stubPosts{}
	app := newTestApp(posts, &stubCleanup{}, &stubEnqueuer{})

	resp, _ := request(t, app, http.MethodGet, "/api/posts/abc", member, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := request(t, app, http.MethodGet, "/api/posts/5", member, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "post not found", body["error"])

	resp, _ = request(t, app, http.MethodPost, "/api/posts/5/edit/reject", admin, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, posts.reason)

	resp, _ = request(t, app, http.MethodPost, "/api/posts/5/edit/reject", admin, `{"reason":"off topic"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "off topic", posts.reason)
}

func TestAdminRoutesRequireModerator(t *testing.T) {
	cleanup := &stubCleanup{}
	enq := &stubEnqueuer{}
	app := newTestApp(&stubPosts{}, cleanup, enq)

	resp, _ := request(t, app, http.MethodGet, "/api/admin/media/orphans", member, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := request(t, app, http.MethodGet, "/api/admin/media/orphans", admin, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["orphan_count"])
}

func TestRunCleanup(t *testing.T) {
	cleanup := &stubCleanup{}
	enq := &stubEnqueuer{}
	app := newTestApp(&stubPosts{}, cleanup, enq)

	resp, body := request(t, app, http.MethodPost, "/api/admin/media/cleanup?max_age=48h", admin, "")
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "task-42", body["task_id"])
	require.Len(t, enq.tasks, 1)

	var payload struct {
		MaxAgeSeconds int64  `json:"max_age_seconds"`
		RequestedBy   int64  `json:"requested_by"`
		Trigger       string `json:"trigger"`
	}
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, int64(48*3600), payload.MaxAgeSeconds)
	assert.Equal(t, admin.ID, payload.RequestedBy)
	assert.Empty(t, cleanup.runs)

	resp, body = request(t, app, http.MethodPost, "/api/admin/media/cleanup?sync=true", admin, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["deleted_count"])
	require.Len(t, cleanup.runs, 1)
	assert.Zero(t, cleanup.runs[0].MaxAge)

	resp, body = request(t, app, http.MethodPost, "/api/admin/media/cleanup?max_age=yesterday", admin, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errInvalidMaxAge.Error(), body["error"])
}
