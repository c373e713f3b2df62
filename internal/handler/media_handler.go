package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sharePreview/internal/storage"
)

// ServeUpload streams a stored media object. Objects never change once
// uploaded, so they are cached for a year.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["path"]

	obj, err := h.Media.Open(r.Context(), name)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			h.Log.WithError(err).WithField("path", name).Warn("failed to open upload")
		}
		WriteError(w, "File not found", http.StatusNotFound)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	if !obj.LastModified.IsZero() {
		w.Header().Set("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, obj); err != nil {
		h.Log.WithError(err).WithField("path", name).Warn("upload stream interrupted")
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.HealthCheck(r.Context()); err != nil {
			h.Log.WithError(err).Error("health check failed")
			WriteSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
