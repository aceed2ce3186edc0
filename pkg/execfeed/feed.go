// Package execfeed reads externally produced execution step records so the
// editor can project job progress onto the graph. The engine itself never
// blocks on the feed; batches arrive through the same single-writer command
// path as editing commands.
package execfeed

import (
	"context"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// StepFeed is the polled variant of the execution step feed: given a job
// id, it returns every step record known so far, keyed by node id.
type StepFeed interface {
	FetchSteps(ctx context.Context, jobID string) (map[string]models.ExecutionStepRecord, error)
	Close() error
}
