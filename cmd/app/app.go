package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"sharePreview/internal/analytics"
	"sharePreview/internal/config"
	"sharePreview/internal/database"
	"sharePreview/internal/metrics"
	"sharePreview/internal/repository"
	"sharePreview/internal/service"
	"sharePreview/internal/storage"
)

// App holds every long-lived dependency of the server.
type App struct {
	DB       *database.DB
	Redis    *redis.Client
	Media    *storage.MinIOClient
	Repo     *repository.Repository
	Services *service.Service
	Metrics  *metrics.Metrics
}

func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
	}

	var redisClient *redis.Client
	if wantsSink(cfg.TrackSinks, "redis") {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis недоступен, события будут теряться до восстановления")
		}
	}

	m := metrics.New()
	repo := repository.NewRepository(db.DB)

	var pusher analytics.ListPusher
	if redisClient != nil {
		pusher = redisClient
	}
	sink, err := analytics.New(cfg.TrackSinks, repo.Track, pusher, cfg.Redis.List)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("ошибка настройки трекинга: %w", err)
	}

	services := service.NewService(repo, sink, log, m)

	return &App{
		DB:       db,
		Redis:    redisClient,
		Media:    minioClient,
		Repo:     repo,
		Services: services,
		Metrics:  m,
	}, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	a.DB.CloseDB()
}

func wantsSink(sinks []string, name string) bool {
	for _, s := range sinks {
		if s == name {
			return true
		}
	}
	return false
}
