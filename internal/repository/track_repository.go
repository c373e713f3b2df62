package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sharePreview/internal/models"
)

type TrackRepositoryImpl struct {
	DB *sqlx.DB
}

func NewTrackRepository(db *sqlx.DB) *TrackRepositoryImpl {
	return &TrackRepositoryImpl{DB: db}
}

func (r *TrackRepositoryImpl) Insert(ctx context.Context, event *models.TrackEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	additional := event.Additional
	if additional == nil {
		additional = map[string]interface{}{}
	}
	data, err := json.Marshal(additional)
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных события: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO track_events (id, visitor_id, ip, user_agent, kind, additional, fbclid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.VisitorID, event.IP, event.UserAgent, string(event.Kind), string(data), event.Fbclid, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении события: %w", err)
	}

	return nil
}
