package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"sharePreview/internal/models"
	"sharePreview/internal/service"
)

type CommentsResponse struct {
	Comments []models.Comment `json:"comments"`
}

type BulkCommentsResponse struct {
	Comments map[string][]models.Comment `json:"comments"`
}

type CreateCommentRequest struct {
	Comment     string `json:"comment" validate:"required"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
}

// GetBulkPosts resolves up to ten posts, with their threads, in one call.
func (h *Handlers) GetBulkPosts(w http.ResponseWriter, r *http.Request) {
	ids, err := service.ParseIDs(r.URL.Query().Get("posts"))
	if err != nil {
		WriteError(w, service.MessageOf(err, "Invalid posts parameter"), http.StatusBadRequest)
		return
	}

	posts, err := h.Batch.ResolvePosts(r.Context(), ids)
	if err != nil {
		h.writeBulkError(w, err, "Failed to fetch posts")
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetBulkComments(w http.ResponseWriter, r *http.Request) {
	ids, err := service.ParseIDs(r.URL.Query().Get("posts"))
	if err != nil {
		WriteError(w, service.MessageOf(err, "Invalid posts parameter"), http.StatusBadRequest)
		return
	}

	comments, err := h.Batch.ResolveComments(r.Context(), ids)
	if err != nil {
		h.writeBulkError(w, err, "Failed to fetch comments")
		return
	}

	WriteSuccess(w, BulkCommentsResponse{Comments: comments}, http.StatusOK)
}

// GetPreview resolves a single post through the bulk path, so an unknown id
// answers with an empty list rather than an error.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	posts, err := h.Batch.ResolvePosts(r.Context(), service.IDList{id})
	if err != nil {
		h.writeBulkError(w, err, "Failed to fetch posts")
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	comments, err := h.Comments.List(r.Context(), id)
	if err != nil {
		h.Log.WithError(err).WithField("post_id", id).Error("failed to list comments")
		WriteError(w, "Failed to fetch comments", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, CommentsResponse{Comments: comments}, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Comment is required", http.StatusBadRequest)
		return
	}

	comment, err := h.Comments.CreateAnonymous(r.Context(), id, req.Comment, service.AnonymousIdentity{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		IP:          ClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		switch service.KindOf(err) {
		case service.KindValidation:
			WriteError(w, service.MessageOf(err, "Invalid comment"), http.StatusBadRequest)
		case service.KindNotFound:
			WriteError(w, service.MessageOf(err, "Post not found"), http.StatusNotFound)
		default:
			h.Log.WithError(err).WithField("post_id", id).Error("failed to create comment")
			WriteError(w, "Failed to create comment", http.StatusInternalServerError)
		}
		return
	}

	h.Log.WithFields(logrus.Fields{
		"post_id":    id,
		"comment_id": comment.ID,
	}).Info("anonymous comment created")

	WriteSuccess(w, comment, http.StatusOK)
}

// writeBulkError keeps the bulk contract: every failure is a 400 with a
// short message, the cause stays in the logs.
func (h *Handlers) writeBulkError(w http.ResponseWriter, err error, fallback string) {
	if service.KindOf(err) == service.KindValidation {
		WriteError(w, service.MessageOf(err, fallback), http.StatusBadRequest)
		return
	}
	WriteError(w, fallback, http.StatusBadRequest)
}
