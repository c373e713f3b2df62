package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"sharePreview/internal/models"
)

// ErrNotFound is wrapped by every lookup that matched no row.
var ErrNotFound = errors.New("запись не найдена")

type PostRepository interface {
	GetPost(ctx context.Context, postID string, includeIntegration, rootOnly bool) (*models.Post, error)
	Exists(ctx context.Context, postID string) (bool, error)
}

type CommentRepository interface {
	ListByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
}

type TrackRepository interface {
	Insert(ctx context.Context, event *models.TrackEvent) error
}

type Repository struct {
	Post    PostRepository
	Comment CommentRepository
	Track   TrackRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Post:    NewPostRepository(db),
		Comment: NewCommentRepository(db),
		Track:   NewTrackRepository(db),
	}
}
