package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sharePreview/internal/models"
)

type CommentRepositoryImpl struct {
	DB *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{DB: db}
}

func (r *CommentRepositoryImpl) ListByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, is_anonymous, client_name, client_email, ip, user_agent, created_at
		FROM comments
		WHERE post_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`

	comments := []models.Comment{}
	err := r.DB.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments
		(id, post_id, user_id, content, is_anonymous, client_name, client_email, ip, user_agent, created_at)
		VALUES
		(:id, :post_id, :user_id, :content, :is_anonymous, :client_name, :client_email, :ip, :user_agent, :created_at)
	`

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.DB.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}
