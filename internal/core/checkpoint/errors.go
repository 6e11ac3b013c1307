// Package checkpoint defines domain-specific errors
package checkpoint

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrNilCheckpoint    = errors.New("checkpoint cannot be nil")
	ErrInvalidNode      = errors.New("checkpoint node cannot be empty")
	ErrInvalidIteration = errors.New("checkpoint iteration cannot be negative")
	ErrInvalidID        = errors.New("invalid checkpoint ID")
	ErrNotFound         = errors.New("checkpoint not found")
)
