package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// DeviceHandler exposes the caller's active device sessions. Every operation
// is keyed off the refresh cookie, not the access token: a stolen access
// token must not be enough to enumerate or kill sessions.
type DeviceHandler struct {
	service AuthServiceInterface
}

func NewDeviceHandler(service AuthServiceInterface) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// DeviceSessionView is the wire shape for one active session.
type DeviceSessionView struct {
	IP             string `json:"ip"`
	Title          string `json:"title"`
	LastActiveDate string `json:"lastActiveDate"`
	DeviceID       string `json:"deviceId"`
}

// List returns the caller's active device sessions.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Refresh token missing")
		return
	}

	sessions, err := h.service.Sessions(r.Context(), refreshToken)
	if err != nil {
		h.writeDeviceError(w, err)
		return
	}

	views := make([]DeviceSessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, DeviceSessionView{
			IP:             s.IP,
			Title:          s.UserAgentTitle,
			LastActiveDate: s.LastActiveDate.Format(time.RFC3339),
			DeviceID:       s.DeviceID,
		})
	}

	pkghttp.WriteJSON(w, http.StatusOK, views)
}

// Terminate kills one session by deviceId.
func (h *DeviceHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Refresh token missing")
		return
	}

	err = h.service.TerminateSession(r.Context(), refreshToken, chi.URLParam(r, "deviceId"))
	if err != nil {
		h.writeDeviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TerminateOthers kills every session except the current device.
func (h *DeviceHandler) TerminateOthers(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := auth.GetRefreshTokenCookie(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Refresh token missing")
		return
	}

	if err := h.service.TerminateOtherSessions(r.Context(), refreshToken); err != nil {
		h.writeDeviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeviceHandler) writeDeviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Invalid refresh token")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Session belongs to another user")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Session not found")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
