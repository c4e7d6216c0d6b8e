package models

import "time"

// DeviceSession is one login session, keyed by (UserID, DeviceID).
// It is upserted on login and on every refresh, and destroyed on logout
// or by the expiration sweep.
type DeviceSession struct {
	UserID         string    `json:"userId"`
	DeviceID       string    `json:"deviceId"`
	IP             string    `json:"ip"`
	UserAgentTitle string    `json:"title"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	ExpirationDate time.Time `json:"-"`
}

// BlacklistedToken is a consumed refresh token. Insertion is permanent for
// the token's lifetime; rows are swept only after ExpiresAt, when the token
// could no longer verify anyway.
type BlacklistedToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
