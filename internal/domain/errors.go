package domain

import "errors"

// Sentinel errors for note operations
var (
	// ErrNoteNotFound indicates the requested note does not exist
	ErrNoteNotFound = errors.New("note not found")

	// ErrServerOffline indicates the notes API is unreachable
	ErrServerOffline = errors.New("notes API is unreachable")

	// ErrUnauthorized indicates the API token was rejected
	ErrUnauthorized = errors.New("API token is invalid")
)
