package models

import (
	"time"
)

type PostState string

const (
	PostStateDraft     PostState = "DRAFT"
	PostStateQueue     PostState = "QUEUE"
	PostStatePublished PostState = "PUBLISHED"
	PostStateError     PostState = "ERROR"
)

// Post is one entry of a thread. ParentPostID, IntegrationID and ChildrenPost
// link posts together inside the service and are never written to clients.
type Post struct {
	ID            string             `json:"id" db:"id"`
	Group         string             `json:"group" db:"post_group"`
	State         PostState          `json:"state" db:"state"`
	Content       Content            `json:"content" db:"content"`
	PublishDate   *time.Time         `json:"publishDate" db:"publish_date"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
	Image         MediaList          `json:"image" db:"image"`
	IntegrationID *string            `json:"-" db:"integration_id"`
	ParentPostID  *string            `json:"-" db:"parent_post_id"`
	Integration   *PublicIntegration `json:"integration,omitempty" db:"-"`
	ChildrenPost  []string           `json:"-" db:"-"`
}

// Integration is the full social account row. Only Public() may leave the service.
type Integration struct {
	ID                 string    `json:"id" db:"id"`
	OrganizationID     string    `json:"organizationId" db:"organization_id"`
	InternalID         string    `json:"internalId" db:"internal_id"`
	Name               string    `json:"name" db:"name"`
	Picture            string    `json:"picture" db:"picture"`
	ProviderIdentifier string    `json:"providerIdentifier" db:"provider_identifier"`
	Profile            string    `json:"profile" db:"profile"`
	Token              string    `json:"-" db:"token"`
	RefreshToken       string    `json:"-" db:"refresh_token"`
	Disabled           bool      `json:"disabled" db:"disabled"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

type PublicIntegration struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Picture            string `json:"picture"`
	ProviderIdentifier string `json:"providerIdentifier"`
	Profile            string `json:"profile"`
}

func (i *Integration) Public() *PublicIntegration {
	if i == nil {
		return nil
	}
	return &PublicIntegration{
		ID:                 i.ID,
		Name:               i.Name,
		Picture:            i.Picture,
		ProviderIdentifier: i.ProviderIdentifier,
		Profile:            i.Profile,
	}
}

// Public returns a copy of the post safe to hand to anonymous callers.
// Calling it on an already public post yields the same post.
func (p Post) Public() Post {
	out := p
	out.IntegrationID = nil
	out.ParentPostID = nil
	out.ChildrenPost = nil
	if p.Integration != nil {
		out.Integration = &PublicIntegration{
			ID:                 p.Integration.ID,
			Name:               p.Integration.Name,
			Picture:            p.Integration.Picture,
			ProviderIdentifier: p.Integration.ProviderIdentifier,
			Profile:            p.Integration.Profile,
		}
	}
	return out
}

// Comment left on a post. Anonymous comments never carry a UserID.
type Comment struct {
	ID          string    `json:"id" db:"id"`
	PostID      string    `json:"postId" db:"post_id"`
	UserID      *string   `json:"userId,omitempty" db:"user_id"`
	Content     string    `json:"content" db:"content"`
	IsAnonymous bool      `json:"isAnonymous" db:"is_anonymous"`
	ClientName  *string   `json:"clientName,omitempty" db:"client_name"`
	ClientEmail *string   `json:"-" db:"client_email"`
	IP          string    `json:"-" db:"ip"`
	UserAgent   string    `json:"-" db:"user_agent"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type TrackKind string

const (
	TrackViewContent          TrackKind = "ViewContent"
	TrackCompleteRegistration TrackKind = "CompleteRegistration"
	TrackInitiateCheckout     TrackKind = "InitiateCheckout"
	TrackStartTrial           TrackKind = "StartTrial"
	TrackPurchase             TrackKind = "Purchase"
)

type TrackEvent struct {
	ID         string                 `json:"id" db:"id"`
	VisitorID  string                 `json:"visitorId" db:"visitor_id"`
	IP         string                 `json:"ip" db:"ip"`
	UserAgent  string                 `json:"userAgent" db:"user_agent"`
	Kind       TrackKind              `json:"kind" db:"kind"`
	Additional map[string]interface{} `json:"additional" db:"-"`
	Fbclid     string                 `json:"fbclid,omitempty" db:"fbclid"`
	CreatedAt  time.Time              `json:"createdAt" db:"created_at"`
}
