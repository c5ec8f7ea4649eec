// Package apperrors defines the sentinel errors shared across the API
// layers. Callers should use errors.Is to match these values.
package apperrors

import "errors"

var (
	// Credential store errors.
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session guard errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store error")

	// Extraction gate errors.
	ErrUnsupportedFormat   = errors.New("unsupported document format")
	ErrInsufficientContent = errors.New("could not extract enough text from file")

	// External model errors.
	ErrGenerationFailed          = errors.New("generation failed")
	ErrMalformedGenerationOutput = errors.New("malformed generation output")
)
