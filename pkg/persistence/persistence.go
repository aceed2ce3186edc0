// Package persistence provides the storage abstraction for pipeline graphs.
package persistence

import (
	"context"

	"github.com/pipestudio/pipestudio/pkg/models"
)

type Persistence interface {
	Pipelines(ctx context.Context) ([]*models.Pipeline, error)
	SavePipeline(ctx context.Context, pipeline *models.Pipeline) error
	PipelineByID(ctx context.Context, id string) (*models.Pipeline, error)
	DeletePipeline(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
