package models

import "time"

// RouteCategory partitions the request log so each guarded endpoint gets
// its own trailing-window counter.
type RouteCategory string

const (
	CategoryLogin            RouteCategory = "login"
	CategoryRegistration     RouteCategory = "registration"
	CategoryConfirmation     RouteCategory = "registration-confirmation"
	CategoryEmailResending   RouteCategory = "registration-email-resending"
	CategoryPasswordRecovery RouteCategory = "password-recovery"
	CategoryNewPassword      RouteCategory = "new-password"
)

// RequestLogEntry records one guarded request from a source address.
// Entries are advisory: a sweep may delete a row while a count is in
// flight, which only ever under-counts.
type RequestLogEntry struct {
	IP        string
	Category  RouteCategory
	CreatedAt time.Time
}
