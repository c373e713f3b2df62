package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"sharePreview/internal/config"
	"sharePreview/internal/service"
	"sharePreview/internal/storage"
)

// MaxBodyBytes caps the JSON bodies accepted by the public POST endpoints.
const MaxBodyBytes = 16 << 10

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	Batch    service.BatchService
	Comments service.CommentService
	Tracking service.TrackingService
	Media    storage.MediaStore
	Health   HealthChecker
	Cfg      *config.Config
	Validate *validator.Validate
	Log      logrus.FieldLogger
	Now      func() time.Time
}

func NewHandlers(service *service.Service, media storage.MediaStore, health HealthChecker, config *config.Config, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		Batch:    service.Batch,
		Comments: service.Comments,
		Tracking: service.Tracking,
		Media:    media,
		Health:   health,
		Cfg:      config,
		Validate: validator.New(),
		Log:      log,
		Now:      time.Now,
	}
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}
