package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every endpoint on r. limit, when set, wraps the public
// API only; pages, media and health checks are not rate limited.
func (h *Handlers) Routes(r *mux.Router, limit mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/bulk-preview", h.BulkPreview).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{path:.+}", h.ServeUpload).Methods(http.MethodGet, http.MethodHead)

	public := r.PathPrefix("/public").Subrouter()
	if limit != nil {
		public.Use(limit)
	}

	// bulk routes first, "bulk" is a valid {id} too
	public.HandleFunc("/posts/bulk", h.GetBulkPosts).Methods(http.MethodGet)
	public.HandleFunc("/posts/bulk/comments", h.GetBulkComments).Methods(http.MethodGet)
	public.HandleFunc("/posts/{id}", h.GetPreview).Methods(http.MethodGet)
	public.HandleFunc("/posts/{id}/comments", h.GetComments).Methods(http.MethodGet)
	public.HandleFunc("/posts/{id}/comments", h.CreateComment).Methods(http.MethodPost)
	public.HandleFunc("/t", h.Track).Methods(http.MethodPost)
}
