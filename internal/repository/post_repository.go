package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sharePreview/internal/models"
)

const postColumns = `id, post_group, state, content, publish_date, created_at, image, integration_id, parent_post_id`

const integrationColumns = `id, organization_id, internal_id, name, picture, provider_identifier, profile, token, refresh_token, disabled, created_at`

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// GetPost loads a live post with the ids of its children. With rootOnly a
// post that has a parent does not match. The integration is attached in its
// public form only when includeIntegration is set.
func (r *PostRepositoryImpl) GetPost(ctx context.Context, postID string, includeIntegration, rootOnly bool) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND deleted_at IS NULL`
	if rootOnly {
		query += ` AND parent_post_id IS NULL`
	}

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s не найден: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	if includeIntegration && post.IntegrationID != nil {
		integration, err := r.getIntegration(ctx, *post.IntegrationID)
		if err != nil {
			return nil, err
		}
		post.Integration = integration.Public()
	}

	children := []string{}
	err = r.DB.SelectContext(ctx, &children, `
		SELECT id FROM posts
		WHERE parent_post_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, post.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении дочерних постов: %w", err)
	}
	post.ChildrenPost = children

	return &post, nil
}

func (r *PostRepositoryImpl) getIntegration(ctx context.Context, integrationID string) (*models.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE id = $1 AND deleted_at IS NULL`

	var integration models.Integration
	err := r.DB.GetContext(ctx, &integration, query, integrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении интеграции: %w", err)
	}

	return &integration, nil
}

func (r *PostRepositoryImpl) Exists(ctx context.Context, postID string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE id = $1 AND deleted_at IS NULL`, postID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке поста: %w", err)
	}

	return count > 0, nil
}
