package service

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"sharePreview/internal/analytics"
	"sharePreview/internal/metrics"
	"sharePreview/internal/models"
)

const (
	VisitorIDLength = 10
	idAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TrackInput is one tracking request. The cookie fields hold whatever the
// browser sent back, empty when the cookie is absent.
type TrackInput struct {
	Kind          models.TrackKind
	Additional    map[string]interface{}
	IP            string
	UserAgent     string
	Fbclid        string
	VisitorCookie string
	FbclidCookie  string
}

// TrackResult tells the caller which cookies have to be issued.
type TrackResult struct {
	VisitorID  string
	NewVisitor bool
	Fbclid     string
	NewFbclid  bool
}

type TrackingService interface {
	Track(ctx context.Context, in TrackInput) (*TrackResult, error)
}

type trackingService struct {
	sink    analytics.Sink
	newID   func() (string, error)
	metrics *metrics.Metrics
}

func NewTrackingService(sink analytics.Sink, m *metrics.Metrics) TrackingService {
	return &trackingService{
		sink:    sink,
		newID:   NewVisitorID,
		metrics: m,
	}
}

// NewTrackingServiceWithIDs is NewTrackingService with a custom id generator.
func NewTrackingServiceWithIDs(sink analytics.Sink, m *metrics.Metrics, newID func() (string, error)) TrackingService {
	return &trackingService{
		sink:    sink,
		newID:   newID,
		metrics: m,
	}
}

// Track resolves the visitor and ad-click ids and forwards the event. Ids
// that already live in cookies are kept as they are.
func (t *trackingService) Track(ctx context.Context, in TrackInput) (*TrackResult, error) {
	result := &TrackResult{
		VisitorID: in.VisitorCookie,
		Fbclid:    in.FbclidCookie,
	}

	if result.VisitorID == "" {
		id, err := t.newID()
		if err != nil {
			return nil, Internal("Failed to track event", err)
		}
		result.VisitorID = id
		result.NewVisitor = true
	}

	if result.Fbclid == "" && in.Fbclid != "" {
		result.Fbclid = in.Fbclid
		result.NewFbclid = true
	}

	event := models.TrackEvent{
		VisitorID:  result.VisitorID,
		IP:         in.IP,
		UserAgent:  in.UserAgent,
		Kind:       in.Kind,
		Additional: in.Additional,
		Fbclid:     result.Fbclid,
	}
	if err := t.sink.Track(ctx, event); err != nil {
		return nil, Internal("Failed to track event", err)
	}

	t.metrics.EventTracked(string(in.Kind), result.NewVisitor)
	return result, nil
}

// NewVisitorID returns a random alphanumeric id of VisitorIDLength characters.
func NewVisitorID() (string, error) {
	return gonanoid.Generate(idAlphabet, VisitorIDLength)
}
