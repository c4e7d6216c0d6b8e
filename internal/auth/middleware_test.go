package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(claimsSeen *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r) != nil {
			*claimsSeen = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)
	token, err := tm.GenerateAccessToken("user-1", "device-1")
	require.NoError(t, err)

	claimsSeen := false
	handler := BearerAuth(tm)(okHandler(&claimsSeen))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, claimsSeen)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)

	claimsSeen := false
	handler := BearerAuth(tm)(okHandler(&claimsSeen))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, claimsSeen)
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)
	handler := BearerAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, header := range []string{"Bearer", "Token abc", "bearer abc abc abc"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestBearerAuth_RefreshTokenNotAccepted(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)
	refreshToken, err := tm.GenerateRefreshToken("user-1", "device-1")
	require.NoError(t, err)

	handler := BearerAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuth(t *testing.T) {
	handler := BasicAuth("admin", "qwerty")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		login    string
		password string
		want     int
	}{
		{"correct credentials", "admin", "qwerty", http.StatusNoContent},
		{"wrong password", "admin", "nope", http.StatusUnauthorized},
		{"wrong login", "root", "qwerty", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/blogs", nil)
			req.SetBasicAuth(tt.login, tt.password)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBasicAuth_NoCredentials(t *testing.T) {
	handler := BasicAuth("admin", "qwerty")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/blogs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}
