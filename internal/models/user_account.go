package models

import (
	"time"
)

// UserAccount is a registered user together with its email confirmation state.
type UserAccount struct {
	ID             string
	Login          string
	Email          string
	PasswordHash   string
	CreatedAt      time.Time
	RegistrationIP string

	EmailConfirmation EmailConfirmation

	// Set while a password recovery is pending.
	RecoveryCode      *string
	RecoveryExpiresAt *time.Time
}

// EmailConfirmation tracks the one-time confirmation code lifecycle.
// The code is unique while the account is unconfirmed; once IsConfirmed
// flips to true the code can never confirm again.
type EmailConfirmation struct {
	ConfirmationCode string
	ExpirationDate   time.Time
	IsConfirmed      bool
	SentEmailLog     []time.Time // timestamps of every confirmation email sent
}

// CanConfirm reports whether the stored code can still transition the
// account to confirmed at time now.
func (c *EmailConfirmation) CanConfirm(code string, now time.Time) error {
	if c.IsConfirmed {
		return ErrAlreadyConfirmed
	}
	if c.ConfirmationCode != code {
		return ErrBadRequest
	}
	if now.After(c.ExpirationDate) {
		return ErrCodeExpired
	}
	return nil
}

// SentWithin counts confirmation emails dispatched within the trailing window.
func (c *EmailConfirmation) SentWithin(window time.Duration, now time.Time) int {
	cutoff := now.Add(-window)
	n := 0
	for _, ts := range c.SentEmailLog {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
