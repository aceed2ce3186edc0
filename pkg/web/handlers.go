package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence"
	"github.com/pipestudio/pipestudio/pkg/services"
)

type APIHandlers struct {
	pipelineService *services.Pipeline
	compiler        *services.Compiler
	sessions        *Sessions
	catalog         *catalog.Catalog
	validator       *validator.Validate
}

func NewAPIHandlers(
	pipelineService *services.Pipeline,
	compiler *services.Compiler,
	sessions *Sessions,
	cat *catalog.Catalog,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		pipelineService: pipelineService,
		compiler:        compiler,
		sessions:        sessions,
		catalog:         cat,
		validator:       validator,
	}
}

// GetCatalog returns the operator palette grouped by category.
func (h *APIHandlers) GetCatalog(c fiber.Ctx) error {
	return c.JSON(h.catalog.EntriesByCategory())
}

// GetOperatorSpec returns the full configuration contract for one operator.
func (h *APIHandlers) GetOperatorSpec(c fiber.Ctx) error {
	operatorID := c.Params("operatorId")
	if operatorID == "" {
		return badRequest(c, "Operator ID is required")
	}

	spec, err := h.catalog.Spec(operatorID)
	if err != nil {
		return notFound(c, "Operator not found")
	}

	return c.JSON(spec)
}

func (h *APIHandlers) GetPipelines(c fiber.Ctx) error {
	pipelines, err := h.pipelineService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(pipelines)
}

func (h *APIHandlers) CreatePipeline(c fiber.Ctx) error {
	var req CreatePipelineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.pipelineService.Create(c.Context(), &services.CreatePipelineRequest{
		Name:        req.Name,
		Description: req.Description,
		Kind:        models.PipelineKind(req.Kind),
		Owner:       req.Owner,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetPipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	pipeline, err := h.pipelineService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsPipelineNotFound(err) {
			return notFound(c, "Pipeline not found")
		}

		return internalError(c, err)
	}

	return c.JSON(pipeline)
}

func (h *APIHandlers) DeletePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	h.sessions.Drop(id)

	if err := h.pipelineService.Delete(c.Context(), id); err != nil {
		if persistence.IsPipelineNotFound(err) {
			return notFound(c, "Pipeline not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetGraph returns the live editor view of a pipeline.
func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	var resp GraphResponse

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		resp = graphResponse(editor)

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(resp)
}

func (h *APIHandlers) AddNode(c fiber.Ctx) error {
	var req AddNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var node *models.Node

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		var err error

		node, err = editor.AddNode(c.Context(), req.Operator, models.Position{X: req.PositionX, Y: req.PositionY})

		return err
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) RemoveNode(c fiber.Ctx) error {
	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		return editor.RemoveNode(c.Context(), c.Params("nodeId"))
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MoveNode updates a node's canvas position. Intermediate drag positions
// set final=false; the closing request sets final=true and commits the
// gesture to history.
func (h *APIHandlers) MoveNode(c fiber.Ctx) error {
	var req MoveNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		if err := editor.MoveNode(c.Params("nodeId"), models.Position{X: req.PositionX, Y: req.PositionY}); err != nil {
			return err
		}

		if req.Final {
			editor.EndMove()
		}

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) UpdateNodeConfig(c fiber.Ctx) error {
	var req UpdateNodeConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var node *models.Node

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		var err error

		node, err = editor.UpdateConfig(c.Context(), c.Params("nodeId"), req.Config)

		return err
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) Connect(c fiber.Ctx) error {
	var req ConnectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var edge *models.Edge

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		var err error

		edge, err = editor.Connect(c.Context(), req.Source, req.SourceHandle, req.Target, req.TargetHandle)

		return err
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *APIHandlers) ClearGraph(c fiber.Ctx) error {
	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		editor.Clear(c.Context())

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) Undo(c fiber.Ctx) error {
	return h.applyHistory(c, func(editor *services.Editor) bool { return editor.Undo() })
}

func (h *APIHandlers) Redo(c fiber.Ctx) error {
	return h.applyHistory(c, func(editor *services.Editor) bool { return editor.Redo() })
}

func (h *APIHandlers) applyHistory(c fiber.Ctx, step func(*services.Editor) bool) error {
	var resp HistoryResponse

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		resp.Applied = step(editor)
		resp.Nodes = editor.Nodes()
		resp.Edges = editor.Edges()

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(resp)
}

func (h *APIHandlers) SelectNode(c fiber.Ctx) error {
	var req SelectNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		return editor.SelectNode(req.NodeID)
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ClearSelection(c fiber.Ctx) error {
	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		editor.ClearSelection()

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) SavePipeline(c fiber.Ctx) error {
	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		return editor.Save(c.Context())
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CompilePipeline validates the live graph and returns the compile result.
// A failed compile is a successful request; the result carries the issues.
func (h *APIHandlers) CompilePipeline(c fiber.Ctx) error {
	pipelineID := c.Params("id")

	var result *models.CompileResult

	err := h.sessions.Do(c.Context(), pipelineID, func(editor *services.Editor) error {
		result = h.compiler.Compile(c.Context(), pipelineID, editor.Nodes(), editor.Edges())

		return nil
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) ActivateExecution(c fiber.Ctx) error {
	var req ActivateExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.sessions.StartExecution(c.Context(), c.Params("id"), req.JobID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) ApplyExecutionSteps(c fiber.Ctx) error {
	var req ApplyStepsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var changed int

	err := h.sessions.Do(c.Context(), c.Params("id"), func(editor *services.Editor) error {
		var err error

		changed, err = editor.ApplyExecutionSteps(req.JobID, req.Steps)

		return err
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"changed": changed})
}

func (h *APIHandlers) ClearExecution(c fiber.Ctx) error {
	cleared, err := h.sessions.StopExecution(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"cleared": cleared})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.pipelineService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "PipeStudio API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "PipeStudio API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func graphResponse(editor *services.Editor) GraphResponse {
	resp := GraphResponse{
		Nodes:   editor.Nodes(),
		Edges:   editor.Edges(),
		Dirty:   editor.Dirty(),
		CanUndo: editor.CanUndo(),
		CanRedo: editor.CanRedo(),
	}

	if selected, ok := editor.SelectedNodeID(); ok {
		resp.SelectedNodeID = selected
	}

	if jobID, active := editor.ActiveJobID(); active {
		resp.ActiveJobID = jobID
	}

	return resp
}
