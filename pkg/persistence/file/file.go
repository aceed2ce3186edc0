// Package file provides file-based persistence for pipeline graphs: one
// JSON document per pipeline under <root>/pipelines.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root string
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. For file-based persistence, there
// is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) pipelinesDir() string {
	return filepath.Join(fp.root, "pipelines")
}

func (fp *Persistence) pipelinePath(id string) string {
	return filepath.Join(fp.pipelinesDir(), id+".json")
}

// Pipelines loads every stored pipeline.
func (fp *Persistence) Pipelines(ctx context.Context) ([]*models.Pipeline, error) {
	root := os.DirFS(fp.pipelinesDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline files: %w", err)
	}

	pipelines := make([]*models.Pipeline, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := strings.TrimSuffix(file, ".json")

		pipeline, err := fp.PipelineByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load pipeline %s: %w", id, err)
		}

		pipelines = append(pipelines, pipeline)
	}

	return pipelines, nil
}

// PipelineByID loads one pipeline document.
func (fp *Persistence) PipelineByID(_ context.Context, id string) (*models.Pipeline, error) {
	data, err := os.ReadFile(fp.pipelinePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.ErrPipelineNotFound
		}

		return nil, fmt.Errorf("failed to read pipeline %s: %w", id, err)
	}

	var pipeline models.Pipeline
	if err := json.Unmarshal(data, &pipeline); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline %s: %w", id, err)
	}

	return &pipeline, nil
}

// SavePipeline writes the pipeline document, creating the directory tree on
// first use and stamping UpdatedAt.
func (fp *Persistence) SavePipeline(_ context.Context, pipeline *models.Pipeline) error {
	if err := os.MkdirAll(fp.pipelinesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create pipelines directory: %w", err)
	}

	if pipeline.CreatedAt.IsZero() {
		pipeline.CreatedAt = time.Now().UTC()
	}

	pipeline.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(pipeline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline %s: %w", pipeline.ID, err)
	}

	if err := os.WriteFile(fp.pipelinePath(pipeline.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write pipeline %s: %w", pipeline.ID, err)
	}

	return nil
}

// DeletePipeline removes the pipeline document.
func (fp *Persistence) DeletePipeline(_ context.Context, id string) error {
	err := os.Remove(fp.pipelinePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistence.ErrPipelineNotFound
		}

		return fmt.Errorf("failed to delete pipeline %s: %w", id, err)
	}

	return nil
}
