// Package web provides HTTP request and response types for the pipeline API.
package web

import "github.com/pipestudio/pipestudio/pkg/models"

// CreatePipelineRequest represents the request body for creating a new pipeline.
type CreatePipelineRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	Kind        string `json:"kind"        validate:"required,oneof=ingestion retrieval"`
	Owner       string `json:"owner"`
}

// AddNodeRequest represents the request body for dropping an operator onto
// the canvas.
type AddNodeRequest struct {
	Operator  string  `json:"operator" validate:"required"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
}

// MoveNodeRequest carries an intermediate or final drag position.
type MoveNodeRequest struct {
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Final     bool    `json:"final"`
}

// UpdateNodeConfigRequest carries a partial configuration merge.
type UpdateNodeConfigRequest struct {
	Config map[string]any `json:"config" validate:"required"`
}

// ConnectRequest represents the request body for creating an edge.
type ConnectRequest struct {
	Source       string `json:"source" validate:"required"`
	SourceHandle string `json:"source_handle"`
	Target       string `json:"target" validate:"required"`
	TargetHandle string `json:"target_handle"`
}

// SelectNodeRequest marks one node as selected.
type SelectNodeRequest struct {
	NodeID string `json:"node_id" validate:"required"`
}

// ActivateExecutionRequest enters execution mode for a backend job.
type ActivateExecutionRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

// ApplyStepsRequest pushes a step-record batch onto the execution overlay.
// Normally the feed poller delivers batches; this endpoint exists for
// backends that push instead of being polled.
type ApplyStepsRequest struct {
	JobID string                                `json:"job_id" validate:"required"`
	Steps map[string]models.ExecutionStepRecord `json:"steps"`
}

// GraphResponse is the full editor view: the current graph, the selection
// and the session flags.
type GraphResponse struct {
	Nodes          []*models.Node `json:"nodes"`
	Edges          []*models.Edge `json:"edges"`
	SelectedNodeID string         `json:"selected_node_id,omitempty"`
	Dirty          bool           `json:"dirty"`
	ActiveJobID    string         `json:"active_job_id,omitempty"`
	CanUndo        bool           `json:"can_undo"`
	CanRedo        bool           `json:"can_redo"`
}

// HistoryResponse reports the result of an undo or redo command.
type HistoryResponse struct {
	Applied bool           `json:"applied"`
	Nodes   []*models.Node `json:"nodes"`
	Edges   []*models.Edge `json:"edges"`
}
