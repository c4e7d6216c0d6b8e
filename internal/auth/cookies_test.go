package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRefreshTokenCookie(t *testing.T) {
	rec := httptest.NewRecorder()

	SetRefreshTokenCookie(rec, "the-token", 10*time.Minute, CookieConfig{
		Secure:   true,
		SameSite: "strict",
	})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "refreshToken", c.Name)
	assert.Equal(t, "the-token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 600, c.MaxAge)
}

func TestClearRefreshTokenCookie(t *testing.T) {
	rec := httptest.NewRecorder()

	ClearRefreshTokenCookie(rec, CookieConfig{Secure: true, SameSite: "strict"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refreshToken", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestGetRefreshTokenCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "tok"})

	value, err := GetRefreshTokenCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	missing := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	_, err = GetRefreshTokenCookie(missing)
	assert.Error(t, err)
}
