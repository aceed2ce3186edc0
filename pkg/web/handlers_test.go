package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence/file"
	"github.com/pipestudio/pipestudio/pkg/services"
	"github.com/pipestudio/pipestudio/pkg/web"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.Default()
	persistence := file.NewPersistence(t.TempDir())

	cat := catalog.NewCatalog(logger)
	cat.RegisterDefaultOperators()

	pipelineService := services.NewPipeline(persistence)
	compiler := services.NewCompiler(logger, cat, nil, nil)
	sessions := web.NewSessions(logger, cat, persistence, nil, nil, 0)
	t.Cleanup(sessions.Close)

	handlers := web.NewAPIHandlers(pipelineService, compiler, sessions, cat, validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New()

	app.Get("/catalog", handlers.GetCatalog)
	app.Get("/catalog/:operatorId", handlers.GetOperatorSpec)

	p := app.Group("/pipelines")
	p.Get("/", handlers.GetPipelines)
	p.Post("/", handlers.CreatePipeline)
	p.Get("/:id", handlers.GetPipeline)
	p.Delete("/:id", handlers.DeletePipeline)
	p.Get("/:id/graph", handlers.GetGraph)
	p.Post("/:id/nodes", handlers.AddNode)
	p.Delete("/:id/nodes/:nodeId", handlers.RemoveNode)
	p.Patch("/:id/nodes/:nodeId/position", handlers.MoveNode)
	p.Patch("/:id/nodes/:nodeId/config", handlers.UpdateNodeConfig)
	p.Post("/:id/edges", handlers.Connect)
	p.Post("/:id/clear", handlers.ClearGraph)
	p.Post("/:id/undo", handlers.Undo)
	p.Post("/:id/redo", handlers.Redo)
	p.Put("/:id/selection", handlers.SelectNode)
	p.Delete("/:id/selection", handlers.ClearSelection)
	p.Post("/:id/save", handlers.SavePipeline)
	p.Post("/:id/compile", handlers.CompilePipeline)
	p.Post("/:id/execution", handlers.ActivateExecution)
	p.Post("/:id/execution/steps", handlers.ApplyExecutionSteps)
	p.Delete("/:id/execution", handlers.ClearExecution)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func createTestPipeline(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines", web.CreatePipelineRequest{
		Name: "Docs Ingestion",
		Kind: "ingestion",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var pipeline models.Pipeline

	require.NoError(t, json.Unmarshal(body, &pipeline))
	require.NotEmpty(t, pipeline.ID)

	return pipeline.ID
}

func addTestNode(t *testing.T, app *fiber.App, pipelineID, operator string) models.Node {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/nodes", web.AddNodeRequest{
		Operator: operator,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var node models.Node

	require.NoError(t, json.Unmarshal(body, &node))

	return node
}

func TestGetCatalog(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/catalog", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var grouped map[string][]models.CatalogEntry

	require.NoError(t, json.Unmarshal(body, &grouped))
	assert.NotEmpty(t, grouped["loader"])
	assert.NotEmpty(t, grouped["embedder"])
}

func TestGetOperatorSpec(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/catalog/openai_embedder", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var spec models.OperatorSpec

	require.NoError(t, json.Unmarshal(body, &spec))
	assert.Equal(t, "openai_embedder", spec.OperatorID)
	assert.NotEmpty(t, spec.RequiredConfig)

	resp, _ = doJSON(t, app, http.MethodGet, "/catalog/ghost_operator", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePipeline_Validation(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/pipelines", web.CreatePipelineRequest{
		Name: "ab",
		Kind: "ingestion",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/pipelines", web.CreatePipelineRequest{
		Name: "Valid Name",
		Kind: "batch",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddNode(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	node := addTestNode(t, app, pipelineID, "csv_loader")
	assert.Equal(t, "csv_loader", node.Operator)
	assert.False(t, node.IsConfigured)
	assert.Equal(t, models.DataTypeRawDocuments, node.OutputType)
}

func TestAddNode_UnknownOperator(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/nodes", web.AddNodeRequest{
		Operator: "ghost_operator",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "unknown_operator")
}

func TestConnect_CompatibleAndIncompatible(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	loader := addTestNode(t, app, pipelineID, "csv_loader")
	chunker := addTestNode(t, app, pipelineID, "text_chunker")
	writer := addTestNode(t, app, pipelineID, "pgvector_writer")

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/edges", web.ConnectRequest{
		Source: loader.ID,
		Target: chunker.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var edge models.Edge

	require.NoError(t, json.Unmarshal(body, &edge))
	assert.Equal(t, loader.ID, edge.SourceNodeID)
	assert.Equal(t, chunker.ID, edge.TargetNodeID)

	// raw_documents cannot feed an embeddings input.
	resp, body = doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/edges", web.ConnectRequest{
		Source: loader.ID,
		Target: writer.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "incompatible_types")

	// The rejection left the graph untouched.
	resp, body = doJSON(t, app, http.MethodGet, "/pipelines/"+pipelineID+"/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var graph web.GraphResponse

	require.NoError(t, json.Unmarshal(body, &graph))
	assert.Len(t, graph.Edges, 1)
}

func TestUpdateNodeConfig(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	embedder := addTestNode(t, app, pipelineID, "openai_embedder")

	resp, body := doJSON(t, app, http.MethodPatch,
		"/pipelines/"+pipelineID+"/nodes/"+embedder.ID+"/config",
		web.UpdateNodeConfigRequest{Config: map[string]any{
			"api_key": "$secret:openai",
			"model":   "text-embedding-3-small",
		}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var node models.Node

	require.NoError(t, json.Unmarshal(body, &node))
	assert.True(t, node.IsConfigured)
	assert.False(t, node.HasErrors)
}

func TestMoveNode_GestureThenUndo(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	node := addTestNode(t, app, pipelineID, "csv_loader")

	resp, _ := doJSON(t, app, http.MethodPatch,
		"/pipelines/"+pipelineID+"/nodes/"+node.ID+"/position",
		web.MoveNodeRequest{PositionX: 100, PositionY: 40})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch,
		"/pipelines/"+pipelineID+"/nodes/"+node.ID+"/position",
		web.MoveNodeRequest{PositionX: 180, PositionY: 90, Final: true})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history web.HistoryResponse

	require.NoError(t, json.Unmarshal(body, &history))
	assert.True(t, history.Applied)
	require.Len(t, history.Nodes, 1)
	assert.Equal(t, models.Position{X: 0, Y: 0}, history.Nodes[0].Position)
}

func TestUndoRedoOverHTTP(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	addTestNode(t, app, pipelineID, "csv_loader")
	addTestNode(t, app, pipelineID, "text_chunker")

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history web.HistoryResponse

	require.NoError(t, json.Unmarshal(body, &history))
	assert.True(t, history.Applied)
	assert.Len(t, history.Nodes, 1)

	resp, body = doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/redo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.Unmarshal(body, &history))
	assert.True(t, history.Applied)
	assert.Len(t, history.Nodes, 2)

	// Nothing further to redo: applied=false, graph unchanged.
	resp, body = doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/redo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.Unmarshal(body, &history))
	assert.False(t, history.Applied)
	assert.Len(t, history.Nodes, 2)
}

func TestSelection(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	node := addTestNode(t, app, pipelineID, "csv_loader")

	resp, _ := doJSON(t, app, http.MethodPut, "/pipelines/"+pipelineID+"/selection",
		web.SelectNodeRequest{NodeID: node.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/pipelines/"+pipelineID+"/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var graph web.GraphResponse

	require.NoError(t, json.Unmarshal(body, &graph))
	assert.Equal(t, node.ID, graph.SelectedNodeID)

	resp, _ = doJSON(t, app, http.MethodDelete, "/pipelines/"+pipelineID+"/selection", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/pipelines/"+pipelineID+"/selection",
		web.SelectNodeRequest{NodeID: "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveThenFetchPipeline(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	addTestNode(t, app, pipelineID, "csv_loader")

	resp, _ := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/save", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/pipelines/"+pipelineID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pipeline models.Pipeline

	require.NoError(t, json.Unmarshal(body, &pipeline))
	assert.Len(t, pipeline.Nodes, 1)
}

func TestCompilePipeline(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	node := addTestNode(t, app, pipelineID, "csv_loader")

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/compile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.CompileResult

	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.Success)

	_, _ = doJSON(t, app, http.MethodPatch,
		"/pipelines/"+pipelineID+"/nodes/"+node.ID+"/config",
		web.UpdateNodeConfigRequest{Config: map[string]any{"path": "/data/docs.csv"}})

	resp, body = doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/compile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ExecutablePipelineID)
}

func TestExecutionEndpoints(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	node := addTestNode(t, app, pipelineID, "csv_loader")

	resp, _ := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/execution",
		web.ActivateExecutionRequest{JobID: "job-1"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/execution/steps",
		web.ApplyStepsRequest{
			JobID: "job-1",
			Steps: map[string]models.ExecutionStepRecord{
				node.ID: {StepID: node.ID, Status: models.ExecutionStatusRunning},
			},
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"changed":1`)

	// Stale batches for a previous job are refused.
	resp, _ = doJSON(t, app, http.MethodPost, "/pipelines/"+pipelineID+"/execution/steps",
		web.ApplyStepsRequest{
			JobID: "job-0",
			Steps: map[string]models.ExecutionStepRecord{
				node.ID: {StepID: node.ID, Status: models.ExecutionStatusFailed},
			},
		})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodDelete, "/pipelines/"+pipelineID+"/execution", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"cleared":1`)
}

func TestDeletePipelineDropsSession(t *testing.T) {
	app := setupTestApp(t)
	pipelineID := createTestPipeline(t, app)

	addTestNode(t, app, pipelineID, "csv_loader")

	resp, _ := doJSON(t, app, http.MethodDelete, "/pipelines/"+pipelineID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/pipelines/"+pipelineID+"/graph", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
