package models

import "time"

// PipelineKind distinguishes the two pipeline flavors an operator can build.
type PipelineKind string

const (
	PipelineKindIngestion PipelineKind = "ingestion"
	PipelineKindRetrieval PipelineKind = "retrieval"
)

// Pipeline is the persisted graph document.
type Pipeline struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required,min=3"`
	Description string       `json:"description"`
	Kind        PipelineKind `json:"kind" validate:"required"`
	Nodes       []*Node      `json:"nodes"`
	Edges       []*Edge      `json:"edges"`
	Owner       string       `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CompileIssue is one error or warning produced while preparing a graph
// for execution, optionally scoped to a node.
type CompileIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	NodeID  string `json:"node_id,omitempty"`
}

// CompileResult is the outcome of submitting a graph for compilation.
type CompileResult struct {
	Success              bool           `json:"success"`
	ExecutablePipelineID string         `json:"executable_pipeline_id,omitempty"`
	Version              string         `json:"version,omitempty"`
	Errors               []CompileIssue `json:"errors"`
	Warnings             []CompileIssue `json:"warnings"`
}
