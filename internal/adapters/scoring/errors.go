package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies a failed scoring service call
type Kind string

const (
	// KindUnauthorized means the scoring service rejected the credentials (401/403)
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindRequestFailed means any other non-2xx response
	KindRequestFailed Kind = "REQUEST_FAILED"
	// KindNetworkError means no response was received
	KindNetworkError Kind = "NETWORK_ERROR"
	// KindValidation means the request was rejected locally and never sent
	KindValidation Kind = "VALIDATION"
)

// APIError is the normalized error of every gateway call
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Validation builds a local validation error
func Validation(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of err, or "" when err is not an APIError
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsUnauthorized reports whether err means the session must be dropped
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}
