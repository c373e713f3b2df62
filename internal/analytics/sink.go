// Package analytics forwards tracking events to where they are analysed.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"sharePreview/internal/models"
	"sharePreview/internal/repository"
)

type Sink interface {
	Track(ctx context.Context, event models.TrackEvent) error
}

// PostgresSink stores events in the track_events table.
type PostgresSink struct {
	repo repository.TrackRepository
}

func NewPostgresSink(repo repository.TrackRepository) *PostgresSink {
	return &PostgresSink{repo: repo}
}

func (s *PostgresSink) Track(ctx context.Context, event models.TrackEvent) error {
	return s.repo.Insert(ctx, &event)
}

// ListPusher is the part of a redis client RedisSink needs.
type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisSink queues events as JSON on a redis list for a consumer to drain.
type RedisSink struct {
	client ListPusher
	list   string
}

func NewRedisSink(client ListPusher, list string) *RedisSink {
	return &RedisSink{client: client, list: list}
}

func (s *RedisSink) Track(ctx context.Context, event models.TrackEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	if err := s.client.RPush(ctx, s.list, data).Err(); err != nil {
		return fmt.Errorf("ошибка записи события в redis: %w", err)
	}
	return nil
}

// MultiSink forwards an event to every sink in order and stops at the first error.
type MultiSink []Sink

func (m MultiSink) Track(ctx context.Context, event models.TrackEvent) error {
	for _, sink := range m {
		if err := sink.Track(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// New builds the sink named by each entry of names ("postgres", "redis").
// A redis entry requires a non-nil client.
func New(names []string, repo repository.TrackRepository, client ListPusher, list string) (Sink, error) {
	var sinks MultiSink
	for _, name := range names {
		switch name {
		case "postgres":
			sinks = append(sinks, NewPostgresSink(repo))
		case "redis":
			if client == nil {
				return nil, fmt.Errorf("redis sink requested but no redis client configured")
			}
			sinks = append(sinks, NewRedisSink(client, list))
		default:
			return nil, fmt.Errorf("unknown track sink %q", name)
		}
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("no track sink configured")
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}
