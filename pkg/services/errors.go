// Package services provides standardized error types for service layer
// operations.
package services

import (
	"errors"

	"github.com/pipestudio/pipestudio/pkg/graph"
	"github.com/pipestudio/pipestudio/pkg/persistence"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrPipelineNameRequired = errors.New("pipeline name is required")
	ErrPipelineNil          = errors.New("pipeline cannot be nil")
	ErrNoActiveJob          = errors.New("no active execution job")

	// ErrPipelineNotFound is re-exported for callers that only import the
	// service layer.
	ErrPipelineNotFound = persistence.ErrPipelineNotFound
)

// IsValidationError checks if an error should surface as HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrPipelineNameRequired) ||
		errors.Is(err, ErrPipelineNil) ||
		errors.Is(err, ErrNoActiveJob)
}

// IsRejection checks if an error is a graph command rejection: a non-fatal
// no-op carrying a reason code for the user.
func IsRejection(err error) bool {
	return graph.IsRejection(err)
}
