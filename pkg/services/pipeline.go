package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence"
)

// Pipeline handles pipeline document CRUD on top of the persistence layer.
type Pipeline struct {
	persistence persistence.Persistence
}

// NewPipeline creates a new pipeline service.
func NewPipeline(persistence persistence.Persistence) *Pipeline {
	return &Pipeline{persistence: persistence}
}

// HealthCheck checks the health of the persistence layer.
func (p *Pipeline) HealthCheck(ctx context.Context) (string, bool) {
	if p.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := p.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreatePipelineRequest carries the fields needed to create a pipeline.
type CreatePipelineRequest struct {
	Name        string              `validate:"required,min=3"`
	Description string
	Kind        models.PipelineKind `validate:"required,oneof=ingestion retrieval"`
	Owner       string
}

// Create stores a new, empty pipeline document.
func (p *Pipeline) Create(ctx context.Context, req *CreatePipelineRequest) (*models.Pipeline, error) {
	if req.Name == "" {
		return nil, ErrPipelineNameRequired
	}

	pipeline := &models.Pipeline{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
		Owner:       req.Owner,
		Nodes:       make([]*models.Node, 0),
		Edges:       make([]*models.Edge, 0),
	}

	if err := p.persistence.SavePipeline(ctx, pipeline); err != nil {
		return nil, fmt.Errorf("failed to save pipeline: %w", err)
	}

	return pipeline, nil
}

// List returns all stored pipelines.
func (p *Pipeline) List(ctx context.Context) ([]*models.Pipeline, error) {
	pipelines, err := p.persistence.Pipelines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	return pipelines, nil
}

// FetchByID loads one pipeline document.
func (p *Pipeline) FetchByID(ctx context.Context, id string) (*models.Pipeline, error) {
	return p.persistence.PipelineByID(ctx, id)
}

// Delete removes a pipeline document.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	return p.persistence.DeletePipeline(ctx, id)
}
