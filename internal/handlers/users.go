package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/ovoronin/bloghub/internal/services"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// UserServiceInterface defines the interface for the admin user surface
type UserServiceInterface interface {
	FindUsers(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) (*models.Page[services.UserView], error)
	CreateUser(ctx context.Context, login, email, password string) (*services.UserView, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler handles the admin user management surface. The whole router
// group sits behind basic auth.
type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserRequest is the admin create body; the account is born confirmed.
type CreateUserRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=10"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// List returns a page of users, filterable by searchLoginTerm and
// searchEmailTerm.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := pkghttp.ParsePageQuery(r, "")
	loginTerm := r.URL.Query().Get("searchLoginTerm")
	emailTerm := r.URL.Query().Get("searchEmailTerm")

	page, err := h.service.FindUsers(r.Context(), q, loginTerm, emailTerm)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// Create makes a pre-confirmed user account. 201 with the view, 400 with a
// field-tagged body on a duplicate login or email.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	view, err := h.service.CreateUser(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult("login", "login or email already exists"))
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult("password", "password does not meet requirements"))
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, view)
}

// Delete removes a user account. 204 or 404.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
