package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sharePreview/internal/models"
)

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) GetPost(ctx context.Context, postID string, includeIntegration, rootOnly bool) (*models.Post, error) {
	args := m.Called(ctx, postID, includeIntegration, rootOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepository) Exists(ctx context.Context, postID string) (bool, error) {
	args := m.Called(ctx, postID)
	return args.Bool(0), args.Error(1)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) ListByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// resolverFunc adapts a function to PostResolver.
type resolverFunc func(ctx context.Context, postID string, rootOnly bool) ([]models.Post, error)

func (f resolverFunc) Resolve(ctx context.Context, postID string, rootOnly bool) ([]models.Post, error) {
	return f(ctx, postID, rootOnly)
}

type commentsFunc func(ctx context.Context, postID string) ([]models.Comment, error)

func (f commentsFunc) List(ctx context.Context, postID string) ([]models.Comment, error) {
	return f(ctx, postID)
}

func (f commentsFunc) CreateAnonymous(ctx context.Context, postID, text string, identity AnonymousIdentity) (*models.Comment, error) {
	panic("not used")
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Track(ctx context.Context, event models.TrackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testPost(id string, children ...string) *models.Post {
	return &models.Post{
		ID:           id,
		State:        models.PostStatePublished,
		Content:      models.NewContent(models.ContentBlock{Content: id}),
		ChildrenPost: children,
	}
}
