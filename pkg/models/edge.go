package models

// Edge is a validated directed connection between two nodes. Edges are
// created only through the graph store's Connect command, which gates on
// type compatibility first; an edge that failed validation never exists.
type Edge struct {
	ID           string `json:"id"            validate:"required"`
	SourceNodeID string `json:"source"        validate:"required"`
	TargetNodeID string `json:"target"        validate:"required"`
	SourceHandle string `json:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty"`
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	clone := *e

	return &clone
}

// CloneEdges deep-copies an edge slice, preserving order.
func CloneEdges(edges []*Edge) []*Edge {
	if edges == nil {
		return nil
	}

	clones := make([]*Edge, len(edges))
	for i, edge := range edges {
		clones[i] = edge.Clone()
	}

	return clones
}
