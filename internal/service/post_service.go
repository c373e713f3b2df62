package service

import (
	"context"
	"errors"
	"fmt"

	"sharePreview/internal/models"
	"sharePreview/internal/repository"
)

// MaxThreadDepth bounds how many follow-on posts a thread may have.
const MaxThreadDepth = 50

type PostResolver interface {
	Resolve(ctx context.Context, postID string, rootOnly bool) ([]models.Post, error)
}

type postResolver struct {
	postRepo repository.PostRepository
}

func NewPostResolver(postRepo repository.PostRepository) PostResolver {
	return &postResolver{postRepo: postRepo}
}

// Resolve returns the thread starting at postID, root first. Only the starting
// post carries its integration. An unknown start is ErrNotFound; a child that
// disappeared mid-walk just ends the thread.
func (p *postResolver) Resolve(ctx context.Context, postID string, rootOnly bool) ([]models.Post, error) {
	root, err := p.postRepo.GetPost(ctx, postID, true, rootOnly)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Post not found", err)
		}
		return nil, err
	}

	thread := []models.Post{root.Public()}
	visited := map[string]bool{root.ID: true}

	next := firstChild(root)
	for next != "" && len(thread) < MaxThreadDepth {
		if visited[next] {
			break
		}
		visited[next] = true

		child, err := p.postRepo.GetPost(ctx, next, false, false)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				break
			}
			return nil, fmt.Errorf("ошибка при получении ветки поста %s: %w", postID, err)
		}

		thread = append(thread, child.Public())
		next = firstChild(child)
	}

	return thread, nil
}

func firstChild(post *models.Post) string {
	if len(post.ChildrenPost) == 0 {
		return ""
	}
	return post.ChildrenPost[0]
}
