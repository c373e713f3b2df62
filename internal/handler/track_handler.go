package handlers

import (
	"encoding/json"
	"net/http"

	"sharePreview/internal/config"
	"sharePreview/internal/models"
	"sharePreview/internal/service"
)

type TrackRequest struct {
	Fbclid     string                 `json:"fbclid"`
	Kind       string                 `json:"tt" validate:"required,oneof=ViewContent CompleteRegistration InitiateCheckout StartTrial Purchase"`
	Additional map[string]interface{} `json:"additional"`
}

type TrackResponse struct {
	Track string `json:"track"`
}

// Track records a conversion event for the visitor and issues the visitor
// and ad-click cookies the first time they are seen.
func (h *Handlers) Track(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Invalid event type", http.StatusBadRequest)
		return
	}

	result, err := h.Tracking.Track(r.Context(), service.TrackInput{
		Kind:          models.TrackKind(req.Kind),
		Additional:    req.Additional,
		IP:            ClientIP(r),
		UserAgent:     r.UserAgent(),
		Fbclid:        req.Fbclid,
		VisitorCookie: cookieValue(r, config.TrackCookieName),
		FbclidCookie:  cookieValue(r, config.FbclidCookieName),
	})
	if err != nil {
		h.Log.WithError(err).WithField("kind", req.Kind).Error("failed to track event")
		WriteError(w, "Failed to track event", http.StatusInternalServerError)
		return
	}

	if result.NewVisitor {
		h.setVisitorCookie(w, config.TrackCookieName, result.VisitorID)
	}
	if result.NewFbclid {
		h.setVisitorCookie(w, config.FbclidCookieName, result.Fbclid)
	}

	WriteSuccess(w, TrackResponse{Track: result.VisitorID}, http.StatusOK)
}

func (h *Handlers) setVisitorCookie(w http.ResponseWriter, name, value string) {
	policy := h.Cfg.Cookie
	lifetime := policy.Lifetime
	if lifetime == 0 {
		lifetime = config.CookieLifetime
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   policy.Domain,
		Expires:  h.now().Add(lifetime),
		Secure:   policy.Secure,
		HttpOnly: policy.Secure,
		SameSite: http.SameSiteNoneMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
