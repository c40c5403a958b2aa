package domain

import "errors"

// Session errors
var (
	ErrIncompleteSession  = errors.New("session requires both token and role")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Fetch errors
var (
	ErrStaleFetch = errors.New("superseded by a newer request")
)
