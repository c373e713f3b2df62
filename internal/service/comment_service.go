package service

import (
	"context"
	"fmt"
	"strings"

	"sharePreview/internal/models"
	"sharePreview/internal/repository"
)

// AnonymousIdentity is what an unauthenticated commenter tells us about
// themselves, plus where the request came from. Name and email are free-form.
type AnonymousIdentity struct {
	ClientName  string
	ClientEmail string
	IP          string
	UserAgent   string
}

type CommentService interface {
	List(ctx context.Context, postID string) ([]models.Comment, error)
	CreateAnonymous(ctx context.Context, postID, text string, identity AnonymousIdentity) (*models.Comment, error)
}

type commentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) CommentService {
	return &commentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

func (c *commentService) List(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := c.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (c *commentService) CreateAnonymous(ctx context.Context, postID, text string, identity AnonymousIdentity) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, Validation("Comment is required")
	}

	exists, err := c.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NotFound("Post not found", fmt.Errorf("пост с ID %s не найден", postID))
	}

	comment := &models.Comment{
		PostID:      postID,
		Content:     text,
		IsAnonymous: true,
		ClientName:  optional(identity.ClientName),
		ClientEmail: optional(identity.ClientEmail),
		IP:          identity.IP,
		UserAgent:   identity.UserAgent,
	}

	if err := c.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
