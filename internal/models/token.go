package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the payload encoded into both access and refresh tokens.
// DeviceID binds a token to one device session row.
type TokenClaims struct {
	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}
