package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/ovoronin/bloghub/internal/services"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(service AuthServiceInterface) *AuthHandler {
	return NewAuthHandler(service, 10*time.Minute, auth.CookieConfig{SameSite: "strict"}, &pkghttp.IPConfig{})
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_Success(t *testing.T) {
	service := &MockAuthService{
		LoginFunc: func(ctx context.Context, loginOrEmail, password, ip, userAgent string) (*services.TokenPair, error) {
			return &services.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}, nil
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"loginOrEmail":"tester","password":"secret123"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body AccessTokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "access-jwt", body.AccessToken)
	assert.NotContains(t, rec.Body.String(), "refresh-jwt")

	cookie := refreshCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-jwt", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"loginOrEmail":"tester","password":"wrong"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, refreshCookie(t, rec))
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"loginOrEmail":"tester"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body models.APIErrorResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.ErrorsMessages, 1)
	assert.Equal(t, "password", body.ErrorsMessages[0].Field)
}

func TestAuthHandler_RefreshToken_MissingCookie(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	rec := httptest.NewRecorder()

	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RefreshToken_RotatesCookie(t *testing.T) {
	service := &MockAuthService{
		RefreshTokensFunc: func(ctx context.Context, refreshToken, ip, userAgent string) (*services.TokenPair, error) {
			assert.Equal(t, "old-refresh", refreshToken)
			return &services.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	rec := httptest.NewRecorder()

	handler.RefreshToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := refreshCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "new-refresh", cookie.Value)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "tok"})
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookie := refreshCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandler_Me(t *testing.T) {
	service := &MockAuthService{
		CurrentUserFunc: func(ctx context.Context, userID string) (*services.MeView, error) {
			return &services.MeView{Email: "t@example.com", Login: "tester", UserID: userID}, nil
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	ctx := context.WithValue(req.Context(), auth.UserContextKey,
		&models.TokenClaims{UserID: "user-1", DeviceID: "device-1"})
	rec := httptest.NewRecorder()

	handler.Me(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body services.MeView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "user-1", body.UserID)
	assert.Equal(t, "tester", body.Login)
}

func TestAuthHandler_Me_NoClaims(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Registration_Success(t *testing.T) {
	registered := false
	service := &MockAuthService{
		RegisterFunc: func(ctx context.Context, login, email, password, ip string) error {
			registered = true
			assert.Equal(t, "newbie", login)
			return nil
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/registration",
		strings.NewReader(`{"login":"newbie","email":"n@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()

	handler.Registration(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, registered)
}

func TestAuthHandler_Registration_ValidationErrors(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/registration",
		strings.NewReader(`{"login":"ab","email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()

	handler.Registration(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body models.APIErrorResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.ErrorsMessages, 3)

	fields := map[string]bool{}
	for _, fe := range body.ErrorsMessages {
		fields[fe.Field] = true
	}
	assert.True(t, fields["login"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestAuthHandler_RegistrationConfirmation_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusNoContent},
		{"already confirmed", models.ErrAlreadyConfirmed, http.StatusBadRequest},
		{"expired", models.ErrCodeExpired, http.StatusBadRequest},
		{"wrong code", models.ErrBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockAuthService{
				ConfirmByCodeFunc: func(ctx context.Context, code string) error {
					return tt.err
				},
			}

			handler := newTestAuthHandler(service)

			req := httptest.NewRequest(http.MethodPost, "/auth/registration-confirmation",
				strings.NewReader(`{"code":"some-code"}`))
			rec := httptest.NewRecorder()

			handler.RegistrationConfirmation(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthHandler_ConfirmRegistration_QueryCode(t *testing.T) {
	var gotCode string
	service := &MockAuthService{
		ConfirmByCodeFunc: func(ctx context.Context, code string) error {
			gotCode = code
			return nil
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm-registration?code=abc-123", nil)
	rec := httptest.NewRecorder()

	handler.ConfirmRegistration(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc-123", gotCode)
}

func TestAuthHandler_ConfirmCode_PathParam(t *testing.T) {
	var gotCode string
	service := &MockAuthService{
		ConfirmByCodeFunc: func(ctx context.Context, code string) error {
			gotCode = code
			return nil
		},
	}
	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm-code/abc-123", nil)
	req = WithChiRouteContext(req, map[string]string{"code": "abc-123"})
	rec := httptest.NewRecorder()

	handler.ConfirmCode(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc-123", gotCode)
}

func TestAuthHandler_ConfirmEmail_EmailCodePair(t *testing.T) {
	service := &MockAuthService{
		ConfirmByEmailFunc: func(ctx context.Context, email, code string) error {
			assert.Equal(t, "t@example.com", email)
			assert.Equal(t, "abc-123", code)
			return nil
		},
	}
	handler := newTestAuthHandler(service)

	body := `{"email":"t@example.com","code":"abc-123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/confirm-email", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ConfirmEmail(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAuthHandler_ConfirmRegistration_MissingCode(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm-registration", nil)
	rec := httptest.NewRecorder()

	handler.ConfirmRegistration(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_EmailResending_RateLimited(t *testing.T) {
	service := &MockAuthService{
		ResendConfirmationFunc: func(ctx context.Context, email string) error {
			return models.ErrRateLimited
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/registration-email-resending",
		strings.NewReader(`{"email":"t@example.com"}`))
	rec := httptest.NewRecorder()

	handler.RegistrationEmailResending(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthHandler_PasswordRecovery_Always204(t *testing.T) {
	handler := newTestAuthHandler(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/password-recovery",
		strings.NewReader(`{"email":"unknown@example.com"}`))
	rec := httptest.NewRecorder()

	handler.PasswordRecovery(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthHandler_NewPassword_BadCode(t *testing.T) {
	service := &MockAuthService{
		NewPasswordFunc: func(ctx context.Context, newPassword, recoveryCode string) error {
			return models.ErrBadRequest
		},
	}

	handler := newTestAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/new-password",
		strings.NewReader(`{"newPassword":"secret123","recoveryCode":"bad"}`))
	rec := httptest.NewRecorder()

	handler.NewPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body models.APIErrorResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.ErrorsMessages, 1)
	assert.Equal(t, "recoveryCode", body.ErrorsMessages[0].Field)
}
