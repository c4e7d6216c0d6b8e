package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ovoronin/bloghub/internal/models"
)

// TokenManager issues and verifies the access/refresh token pair. The two
// token kinds are signed with distinct secrets, so an access token can never
// pass refresh verification or vice versa.
type TokenManager struct {
	accessSecret       string
	refreshSecret      string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:       accessSecret,
		refreshSecret:      refreshSecret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// NewDeviceID mints the opaque device identifier carried through a session's
// token lineage.
func NewDeviceID() string {
	return uuid.New().String()
}

// GenerateAccessToken creates a short-lived access token bound to a device session.
func (tm *TokenManager) GenerateAccessToken(userID, deviceID string) (string, error) {
	return tm.sign(userID, deviceID, tm.accessSecret, tm.accessTokenExpiry)
}

// GenerateRefreshToken creates a refresh token with the same payload shape and
// a longer expiry.
func (tm *TokenManager) GenerateRefreshToken(userID, deviceID string) (string, error) {
	return tm.sign(userID, deviceID, tm.refreshSecret, tm.refreshTokenExpiry)
}

func (tm *TokenManager) sign(userID, deviceID, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID:   userID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken verifies an access token. Verification fails closed:
// expiry, signature mismatch, and malformed input all yield ErrUnauthorized.
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return tm.validate(tokenString, tm.accessSecret)
}

// ValidateRefreshToken verifies a refresh token against the refresh secret.
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*models.TokenClaims, error) {
	return tm.validate(tokenString, tm.refreshSecret)
}

func (tm *TokenManager) validate(tokenString, secret string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.UserID == "" || claims.DeviceID == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}

// RefreshTokenExpiry exposes the configured refresh lifetime for cookie MaxAge
// and session expiration bookkeeping.
func (tm *TokenManager) RefreshTokenExpiry() time.Duration {
	return tm.refreshTokenExpiry
}
