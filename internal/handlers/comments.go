package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// CommentHandler handles standalone comment requests. Creation lives under
// the post path; this handler covers get, update, and delete by comment id.
type CommentHandler struct {
	service CommentServiceInterface
}

func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// Get returns one comment or 404.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetCommentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Comment not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, comment)
}

// Update rewrites a comment's content. Only the author may do so; anyone
// else gets 403.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req CommentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	err := h.service.UpdateComment(r.Context(), chi.URLParam(r, "id"), req.Content, claims.UserID)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a comment. Author only.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) writeCommentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Comment not found")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Comment belongs to another user")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
