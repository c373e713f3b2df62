package test

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"sharePreview/internal/config"
	handlers "sharePreview/internal/handler"
	"sharePreview/internal/models"
	"sharePreview/internal/repository"
	"sharePreview/internal/service"
	"sharePreview/internal/storage"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetPost(ctx context.Context, postID string, includeIntegration, rootOnly bool) (*models.Post, error) {
	args := m.Called(ctx, postID, includeIntegration, rootOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Exists(ctx context.Context, postID string) (bool, error) {
	args := m.Called(ctx, postID)
	return args.Bool(0), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Track(ctx context.Context, event models.TrackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Open(ctx context.Context, objectName string) (*storage.Object, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testEnv struct {
	Posts    *MockPostRepository
	Comments *MockCommentRepository
	Sink     *MockSink
	Media    *MockMediaStore
	Health   *MockHealthChecker
	Cfg      *config.Config
	Handlers *handlers.Handlers
	Router   *mux.Router
	Logs     *logtest.Hook
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestEnv wires the real services on top of mocked repositories.
func newTestEnv() *testEnv {
	env := &testEnv{
		Posts:    new(MockPostRepository),
		Comments: new(MockCommentRepository),
		Sink:     new(MockSink),
		Media:    new(MockMediaStore),
		Health:   new(MockHealthChecker),
		Cfg: &config.Config{
			FrontendURL: "https://app.example.com",
			Cookie: config.Cookie{
				Domain:   ".example.com",
				Secure:   true,
				Lifetime: config.CookieLifetime,
			},
		},
	}

	log, hook := logtest.NewNullLogger()
	env.Logs = hook

	repo := &repository.Repository{
		Post:    env.Posts,
		Comment: env.Comments,
	}
	services := service.NewService(repo, env.Sink, log, nil)

	env.Handlers = handlers.NewHandlers(services, env.Media, env.Health, env.Cfg, log)
	env.Handlers.Now = func() time.Time { return fixedNow }

	env.Router = mux.NewRouter()
	env.Handlers.Routes(env.Router, nil)

	return env
}

func post(id string, children ...string) *models.Post {
	return &models.Post{
		ID:           id,
		Group:        "group-" + id,
		State:        models.PostStatePublished,
		Content:      models.NewContent(models.ContentBlock{Content: "content of " + id}),
		CreatedAt:    fixedNow,
		ChildrenPost: children,
	}
}

func fakeObject(body string, contentType string) *storage.Object {
	return &storage.Object{
		ReadCloser:   io.NopCloser(bytes.NewBufferString(body)),
		Size:         int64(len(body)),
		ContentType:  contentType,
		LastModified: fixedNow,
	}
}

func strPtr(s string) *string {
	return &s
}
