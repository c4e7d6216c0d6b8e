package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/ovoronin/bloghub/internal/services"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, loginOrEmail, password, ip, userAgent string) (*services.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken, ip, userAgent string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*services.MeView, error)
	Register(ctx context.Context, login, email, password, ip string) error
	ConfirmByCode(ctx context.Context, code string) error
	ConfirmByEmail(ctx context.Context, email, code string) error
	ResendConfirmation(ctx context.Context, email string) error
	PasswordRecovery(ctx context.Context, email string) error
	NewPassword(ctx context.Context, newPassword, recoveryCode string) error
	Sessions(ctx context.Context, refreshToken string) ([]models.DeviceSession, error)
	TerminateSession(ctx context.Context, refreshToken, deviceID string) error
	TerminateOtherSessions(ctx context.Context, refreshToken string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	refreshExpiry time.Duration
	cookies       auth.CookieConfig
	ipConfig      *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, refreshExpiry time.Duration, cookies auth.CookieConfig, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:       service,
		refreshExpiry: refreshExpiry,
		cookies:       cookies,
		ipConfig:      ipConfig,
	}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	LoginOrEmail string `json:"loginOrEmail" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// RegistrationRequest represents the request body for registration
type RegistrationRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=10"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// ConfirmationRequest carries a registration confirmation code
type ConfirmationRequest struct {
	Code string `json:"code" validate:"required"`
}

// ConfirmEmailRequest carries the email + code pair variant
type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// EmailResendingRequest represents the request body for resending the code
type EmailResendingRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordRecoveryRequest represents the request body for password recovery
type PasswordRecoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewPasswordRequest represents the request body for installing a new password
type NewPasswordRequest struct {
	NewPassword  string `json:"newPassword" validate:"required,min=6,max=20"`
	RecoveryCode string `json:"recoveryCode" validate:"required"`
}

// AccessTokenResponse is the login/refresh response body; the refresh token
// travels only in the httpOnly cookie.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login handles user login: 200 with an access token and a refreshToken
// cookie, 401 on any credential failure.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	pair, err := h.service.Login(r.Context(), req.LoginOrEmail, req.Password, ip, userAgent)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid login or password")
		case errors.Is(err, models.ErrRateLimited):
			pkghttp.WriteTooManyRequests(w, "Too many login attempts. Please try again later.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetRefreshTokenCookie(w, pair.RefreshToken, h.refreshExpiry, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, AccessTokenResponse{AccessToken: pair.AccessToken})
}

// RefreshToken rotates the refresh token from the cookie and returns a fresh
// access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Refresh token missing")
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	pair, err := h.service.RefreshTokens(r.Context(), refreshToken, ip, userAgent)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid refresh token")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.SetRefreshTokenCookie(w, pair.RefreshToken, h.refreshExpiry, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, AccessTokenResponse{AccessToken: pair.AccessToken})
}

// Logout consumes the refresh token and clears the cookie. 204 on success.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Refresh token missing")
		return
	}

	if err := h.service.Logout(r.Context(), refreshToken); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid refresh token")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.ClearRefreshTokenCookie(w, h.cookies)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated caller's identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	view, err := h.service.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, view)
}

// Registration creates an unconfirmed account and emails a confirmation code.
// 204 on success; duplicate login/email comes back as a field-tagged 400.
func (h *AuthHandler) Registration(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	err := h.service.Register(r.Context(), req.Login, req.Email, req.Password, ip)
	if err != nil {
		if field, ok := services.TakenField(err); ok {
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult(field, field+" already exists"))
			return
		}
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult("password", "password does not meet requirements"))
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegistrationConfirmation confirms via a code in the body. 204 or 400.
func (h *AuthHandler) RegistrationConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	h.writeConfirmResult(w, http.StatusNoContent, h.service.ConfirmByCode(r.Context(), req.Code))
}

// ConfirmRegistration confirms via the emailed link: GET with ?code=. 201 or 400.
func (h *AuthHandler) ConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("code", "this field is required"))
		return
	}

	h.writeConfirmResult(w, http.StatusCreated, h.service.ConfirmByCode(r.Context(), code))
}

// ConfirmCode confirms via a path parameter: GET /confirm-code/{code}.
func (h *AuthHandler) ConfirmCode(w http.ResponseWriter, r *http.Request) {
	h.writeConfirmResult(w, http.StatusCreated, h.service.ConfirmByCode(r.Context(), chi.URLParam(r, "code")))
}

// ConfirmEmail confirms via an email + code pair in the body.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req ConfirmEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	h.writeConfirmResult(w, http.StatusCreated, h.service.ConfirmByEmail(r.Context(), req.Email, req.Code))
}

// writeConfirmResult maps a confirmation outcome to the wire. The success
// status differs by variant: the body-driven endpoint answers 204, the
// emailed-link variants answer 201.
func (h *AuthHandler) writeConfirmResult(w http.ResponseWriter, successStatus int, err error) {
	switch {
	case err == nil:
		w.WriteHeader(successStatus)
	case errors.Is(err, models.ErrAlreadyConfirmed):
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("code", "email is already confirmed"))
	case errors.Is(err, models.ErrCodeExpired):
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("code", "confirmation code has expired"))
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("code", "confirmation code is incorrect"))
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// RegistrationEmailResending issues a fresh confirmation code.
func (h *AuthHandler) RegistrationEmailResending(w http.ResponseWriter, r *http.Request) {
	var req EmailResendingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	err := h.service.ResendConfirmation(r.Context(), req.Email)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, models.ErrAlreadyConfirmed):
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("email", "email is already confirmed"))
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
			models.NewAPIErrorResult("email", "email is not registered"))
	case errors.Is(err, models.ErrRateLimited):
		pkghttp.WriteTooManyRequests(w, "Too many confirmation emails requested. Please try again later.")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// PasswordRecovery always answers 204 so addresses cannot be probed.
func (h *AuthHandler) PasswordRecovery(w http.ResponseWriter, r *http.Request) {
	var req PasswordRecoveryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	if err := h.service.PasswordRecovery(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NewPassword installs a new password for a valid recovery code.
func (h *AuthHandler) NewPassword(w http.ResponseWriter, r *http.Request) {
	var req NewPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if result := ValidateRequest(req); result != nil {
		pkghttp.WriteFieldErrors(w, http.StatusBadRequest, result)
		return
	}

	err := h.service.NewPassword(r.Context(), req.NewPassword, req.RecoveryCode)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteFieldErrors(w, http.StatusBadRequest,
				models.NewAPIErrorResult("recoveryCode", "recovery code is incorrect or expired"))
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
