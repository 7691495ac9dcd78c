// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Check-related errors
	ErrSourceTooLarge = errors.New("source exceeds maximum size")

	// Storage-related errors
	ErrSchemaMissing   = errors.New("schema not initialized, run `siren init`")
	ErrHistoryDisabled = errors.New("check history is disabled")

	// Auth-related errors
	ErrUnauthorized = errors.New("unauthorized")
)
