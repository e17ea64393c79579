// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Ingestion errors. A malformed row is dropped and counted, never fatal.
	ErrMalformedInput = errors.New("malformed input row")

	// Artifact errors. Missing or misshapen input artifacts abort startup;
	// there is no partial startup.
	ErrArtifactMissing = errors.New("artifact missing")
	ErrShapeMismatch   = errors.New("artifact shape mismatch")

	// Query errors. Returned to the caller, never fatal to the process.
	ErrUnknownProduct = errors.New("unknown product")
	ErrEmptyDataset   = errors.New("empty dataset")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ArtifactError wraps ErrArtifactMissing or ErrShapeMismatch with the
// identity of the offending artifact, so a load failure can never be
// mistaken for an empty-but-valid dataset.
func ArtifactError(kind error, artifact string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", kind, artifact, err)
	}
	return fmt.Errorf("%w: %s", kind, artifact)
}
