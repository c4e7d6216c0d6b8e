package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrRateLimited    = errors.New("too many requests")
	ErrInternalServer = errors.New("internal server error")

	// Confirmation state errors
	ErrAlreadyConfirmed = errors.New("account already confirmed")
	ErrCodeExpired      = errors.New("confirmation code expired")
)

// FieldError is a single field-tagged validation failure in a 400 body.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// APIErrorResult is the error body contract for validation failures:
// {"errorsMessages":[{"message":..., "field":...}]}
type APIErrorResult struct {
	ErrorsMessages []FieldError `json:"errorsMessages"`
}

// NewAPIErrorResult builds a single-field error body.
func NewAPIErrorResult(field, message string) *APIErrorResult {
	return &APIErrorResult{ErrorsMessages: []FieldError{{Message: message, Field: field}}}
}
