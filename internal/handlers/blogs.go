package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// BlogServiceInterface defines the interface for blog business logic
type BlogServiceInterface interface {
	FindBlogs(ctx context.Context, q models.PageQuery) (*models.Page[models.Blog], error)
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	CreateBlog(ctx context.Context, name, websiteURL string) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id, name, websiteURL string) error
	DeleteBlog(ctx context.Context, id string) error
}

// BlogHandler handles blog CRUD requests
type BlogHandler struct {
	service BlogServiceInterface
	posts   PostServiceInterface
}

func NewBlogHandler(service BlogServiceInterface, posts PostServiceInterface) *BlogHandler {
	return &BlogHandler{service: service, posts: posts}
}

// BlogRequest is the create/update body for a blog.
type BlogRequest struct {
	Name       string `json:"name" validate:"required,max=15"`
	WebsiteURL string `json:"websiteUrl" validate:"required,url,max=100"`
}

// List returns a page of blogs, filterable by searchNameTerm.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := pkghttp.ParsePageQuery(r, "searchNameTerm")

	page, err := h.service.FindBlogs(r.Context(), q)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// Get returns one blog or 404.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.GetBlogByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Blog not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, blog)
}

// Create makes a new blog. 201 with the created entity.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), req.Name, req.WebsiteURL)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, blog)
}

// Update replaces a blog's fields. 204 or 404.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req BlogRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	err := h.service.UpdateBlog(r.Context(), chi.URLParam(r, "id"), req.Name, req.WebsiteURL)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Blog not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a blog. 204 or 404.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteBlog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Blog not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BlogPostRequest is the body for creating a post under a blog path.
type BlogPostRequest struct {
	Title            string `json:"title" validate:"required,max=30"`
	ShortDescription string `json:"shortDescription" validate:"required,max=100"`
	Content          string `json:"content" validate:"required,max=1000"`
}

// ListPosts returns a page of posts belonging to one blog. 404 when the blog
// does not exist.
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := pkghttp.ParsePageQuery(r, "")

	page, err := h.posts.FindPostsByBlogID(r.Context(), q, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Blog not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// CreatePost creates a post under the blog in the path.
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req BlogPostRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), req.Title, req.ShortDescription, req.Content, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Blog not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, post)
}
