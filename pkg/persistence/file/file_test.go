package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence"
)

func samplePipeline(id string) *models.Pipeline {
	return &models.Pipeline{
		ID:   id,
		Name: "Docs Ingestion",
		Kind: models.PipelineKindIngestion,
		Nodes: []*models.Node{
			{
				ID:           "n1",
				Operator:     "csv_loader",
				Category:     models.CategoryLoader,
				DisplayName:  "CSV Loader",
				Position:     models.Position{X: 10, Y: 20},
				Config:       map[string]any{"path": "/data/docs.csv"},
				InputType:    models.DataTypeNone,
				OutputType:   models.DataTypeRawDocuments,
				IsConfigured: true,
			},
			{
				ID:          "n2",
				Operator:    "text_chunker",
				Category:    models.CategoryChunker,
				DisplayName: "Text Chunker",
				Config:      map[string]any{},
				InputType:   models.DataTypeRawDocuments,
				OutputType:  models.DataTypeChunks,
			},
		},
		Edges: []*models.Edge{
			{ID: "e1", SourceNodeID: "n1", TargetNodeID: "n2"},
		},
	}
}

func TestSaveAndLoadPipeline(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	pipeline := samplePipeline("pl-1")
	require.NoError(t, p.SavePipeline(ctx, pipeline))
	assert.False(t, pipeline.UpdatedAt.IsZero())

	loaded, err := p.PipelineByID(ctx, "pl-1")
	require.NoError(t, err)

	assert.Equal(t, pipeline.Name, loaded.Name)
	assert.Equal(t, pipeline.Kind, loaded.Kind)
	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "csv_loader", loaded.Nodes[0].Operator)
	assert.Equal(t, "/data/docs.csv", loaded.Nodes[0].Config["path"])
	assert.True(t, loaded.Nodes[0].IsConfigured)
	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, "n1", loaded.Edges[0].SourceNodeID)
}

func TestPipelineByID_NotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.PipelineByID(context.Background(), "ghost")
	assert.True(t, persistence.IsPipelineNotFound(err))
}

func TestPipelines_ListsAll(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.SavePipeline(ctx, samplePipeline("pl-1")))
	require.NoError(t, p.SavePipeline(ctx, samplePipeline("pl-2")))

	pipelines, err := p.Pipelines(ctx)
	require.NoError(t, err)
	assert.Len(t, pipelines, 2)
}

func TestDeletePipeline(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.SavePipeline(ctx, samplePipeline("pl-1")))
	require.NoError(t, p.DeletePipeline(ctx, "pl-1"))

	_, err := p.PipelineByID(ctx, "pl-1")
	assert.True(t, persistence.IsPipelineNotFound(err))

	assert.True(t, persistence.IsPipelineNotFound(p.DeletePipeline(ctx, "pl-1")))
}
