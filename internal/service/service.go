package service

import (
	"github.com/sirupsen/logrus"

	"sharePreview/internal/analytics"
	"sharePreview/internal/metrics"
	"sharePreview/internal/repository"
)

type Service struct {
	Posts    PostResolver
	Batch    BatchService
	Comments CommentService
	Tracking TrackingService
}

func NewService(rep *repository.Repository, sink analytics.Sink, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	posts := NewPostResolver(rep.Post)
	comments := NewCommentService(rep.Post, rep.Comment)

	return &Service{
		Posts:    posts,
		Batch:    NewBatchService(posts, comments, log, m),
		Comments: comments,
		Tracking: NewTrackingService(sink, m),
	}
}
