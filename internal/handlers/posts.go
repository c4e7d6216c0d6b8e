package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// PostServiceInterface defines the interface for post business logic
type PostServiceInterface interface {
	FindPosts(ctx context.Context, q models.PageQuery) (*models.Page[models.Post], error)
	FindPostsByBlogID(ctx context.Context, q models.PageQuery, blogID string) (*models.Page[models.Post], error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, title, shortDescription, content, blogID string) (*models.Post, error)
	UpdatePost(ctx context.Context, id, title, shortDescription, content, blogID string) error
	DeletePost(ctx context.Context, id string) error
}

// CommentServiceInterface defines the interface for comment business logic
type CommentServiceInterface interface {
	FindCommentsByPostID(ctx context.Context, q models.PageQuery, postID string) (*models.Page[models.Comment], error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, postID, content, userID string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id, content, callerID string) error
	DeleteComment(ctx context.Context, id, callerID string) error
}

// PostHandler handles post CRUD requests plus the nested comments surface
type PostHandler struct {
	service  PostServiceInterface
	comments CommentServiceInterface
}

func NewPostHandler(service PostServiceInterface, comments CommentServiceInterface) *PostHandler {
	return &PostHandler{service: service, comments: comments}
}

// PostRequest is the create/update body for a post.
type PostRequest struct {
	Title            string `json:"title" validate:"required,max=30"`
	ShortDescription string `json:"shortDescription" validate:"required,max=100"`
	Content          string `json:"content" validate:"required,max=1000"`
	BlogID           string `json:"blogId" validate:"required"`
}

// List returns a page of posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := pkghttp.ParsePageQuery(r, "")

	page, err := h.service.FindPosts(r.Context(), q)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// Get returns one post or 404.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, post)
}

// Create makes a new post. The referenced blog must exist; a dangling blogId
// is a field-tagged 400, matching the write contract.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PostRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	post, err := h.service.CreatePost(r.Context(), req.Title, req.ShortDescription, req.Content, req.BlogID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult("blogId", "blog does not exist"))
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, post)
}

// Update replaces a post's fields. 204, 400 on dangling blogId, 404 on a
// missing post.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PostRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "id"),
		req.Title, req.ShortDescription, req.Content, req.BlogID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a post. 204 or 404.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeletePost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CommentRequest is the create/update body for a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=20,max=300"`
}

// ListComments returns a page of comments for a post. 404 when the post does
// not exist.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := pkghttp.ParsePageQuery(r, "")

	page, err := h.comments.FindCommentsByPostID(r.Context(), q, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// CreateComment creates a comment on a post as the authenticated caller.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	comment, err := h.comments.CreateComment(r.Context(),
		chi.URLParam(r, "id"), req.Content, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Post not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Authentication required")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, comment)
}
