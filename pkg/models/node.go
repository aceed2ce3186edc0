package models

import "maps"

// Position is a canvas coordinate, already translated from screen space
// by the rendering layer.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ExecutionStatus is the transient per-node state of an external job run.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusSkipped   ExecutionStatus = "skipped"
)

// Node is a placed instance of an operator in the pipeline graph.
//
// Editing commands own every field except ExecutionStatus, which is written
// only by the execution overlay and is nil outside execution mode. Input
// and output types are copied from the catalog entry at creation time and
// never recomputed.
type Node struct {
	ID              string           `json:"id"           validate:"required"`
	Operator        string           `json:"operator"     validate:"required"`
	Category        Category         `json:"category"     validate:"required"`
	DisplayName     string           `json:"display_name" validate:"required,min=1"`
	Position        Position         `json:"position"`
	Config          map[string]any   `json:"config"`
	InputType       DataType         `json:"input_type"`
	OutputType      DataType         `json:"output_type"`
	IsConfigured    bool             `json:"is_configured"`
	HasErrors       bool             `json:"has_errors"`
	ExecutionStatus *ExecutionStatus `json:"execution_status,omitempty"`
}

// Clone returns a deep copy of the node. Config values are copied at the
// top level; field values are plain scalars supplied by the config editor.
func (n *Node) Clone() *Node {
	clone := *n

	if n.Config != nil {
		clone.Config = make(map[string]any, len(n.Config))
		maps.Copy(clone.Config, n.Config)
	}

	if n.ExecutionStatus != nil {
		status := *n.ExecutionStatus
		clone.ExecutionStatus = &status
	}

	return &clone
}

// CloneNodes deep-copies a node slice, preserving order.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}

	clones := make([]*Node, len(nodes))
	for i, node := range nodes {
		clones[i] = node.Clone()
	}

	return clones
}
