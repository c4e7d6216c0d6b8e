package auth

import (
	"testing"
	"time"

	"github.com/ovoronin/bloghub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests-0123456789"
	refreshSecret = "refresh-secret-for-tests-0123456789"
)

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)

	token, err := tm.GenerateAccessToken("user-1", "device-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "device-1", claims.DeviceID)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_RefreshTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)

	token, err := tm.GenerateRefreshToken("user-1", "device-1")
	require.NoError(t, err)

	claims, err := tm.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_SecretsAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)

	accessToken, err := tm.GenerateAccessToken("user-1", "device-1")
	require.NoError(t, err)
	refreshToken, err := tm.GenerateRefreshToken("user-1", "device-1")
	require.NoError(t, err)

	_, err = tm.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = tm.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, -time.Minute, -time.Minute)

	token, err := tm.GenerateAccessToken("user-1", "device-1")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)
	other := NewTokenManager("completely-different-secret-value", refreshSecret, 5*time.Minute, 10*time.Minute)

	token, err := other.GenerateAccessToken("user-1", "device-1")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_GarbageInputRejected(t *testing.T) {
	tm := NewTokenManager(accessSecret, refreshSecret, 5*time.Minute, 10*time.Minute)

	for _, input := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.."} {
		_, err := tm.ValidateAccessToken(input)
		assert.ErrorIs(t, err, models.ErrUnauthorized, "input %q", input)
	}
}

func TestNewDeviceID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewDeviceID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
