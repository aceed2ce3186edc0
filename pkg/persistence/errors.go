package persistence

import "errors"

// Standard persistence error types that all implementations should use.
var (
	// ErrPipelineNotFound indicates a pipeline was not found by the given
	// identifier.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrPipelineAlreadyExists indicates a pipeline with the same
	// identifier already exists.
	ErrPipelineAlreadyExists = errors.New("pipeline already exists")
)

// IsPipelineNotFound checks if an error indicates a missing pipeline.
func IsPipelineNotFound(err error) bool {
	return errors.Is(err, ErrPipelineNotFound)
}
