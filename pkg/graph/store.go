// Package graph owns the in-memory pipeline graph and the discrete editing
// commands that mutate it. Commands run on the host's single command path:
// they are synchronous, total and leave the store untouched on rejection.
package graph

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/google/uuid"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/compat"
	"github.com/pipestudio/pipestudio/pkg/configcheck"
	"github.com/pipestudio/pipestudio/pkg/models"
)

// Store holds the node and edge collections of one pipeline graph.
type Store struct {
	logger  *slog.Logger
	catalog *catalog.Catalog
	nodes   []*models.Node
	edges   []*models.Edge
}

// NewStore creates an empty graph store backed by the given catalog.
func NewStore(logger *slog.Logger, cat *catalog.Catalog) *Store {
	return &Store{
		logger:  logger.With("module", "graph"),
		catalog: cat,
		nodes:   make([]*models.Node, 0),
		edges:   make([]*models.Edge, 0),
	}
}

// Nodes returns the current node collection. Callers must treat the slice
// as read-only; mutation goes through commands.
func (s *Store) Nodes() []*models.Node {
	return s.nodes
}

// Edges returns the current edge collection, read-only for callers.
func (s *Store) Edges() []*models.Edge {
	return s.edges
}

// Node looks up a node by id.
func (s *Store) Node(id string) (*models.Node, bool) {
	for _, node := range s.nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// AddNode instantiates an operator at a canvas position and appends it to
// the graph. Unknown operator ids are rejected, which also covers the case
// of a catalog fetch that has not resolved yet.
func (s *Store) AddNode(operatorID string, position models.Position) (*models.Node, error) {
	node, err := s.catalog.CreateNode(operatorID, position)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownOperator) {
			return nil, &Rejection{Reason: ReasonUnknownOperator, Detail: operatorID}
		}

		return nil, err
	}

	s.nodes = append(s.nodes, node)

	s.logger.Debug("Node added", "node_id", node.ID, "operator", node.Operator)

	return node, nil
}

// RemoveNode deletes a node and cascades to every edge that references it.
func (s *Store) RemoveNode(id string) error {
	if _, ok := s.Node(id); !ok {
		return &Rejection{Reason: ReasonNodeNotFound, Detail: id}
	}

	nodes := make([]*models.Node, 0, len(s.nodes)-1)

	for _, node := range s.nodes {
		if node.ID != id {
			nodes = append(nodes, node)
		}
	}

	edges := make([]*models.Edge, 0, len(s.edges))

	for _, edge := range s.edges {
		if edge.SourceNodeID != id && edge.TargetNodeID != id {
			edges = append(edges, edge)
		}
	}

	s.nodes = nodes
	s.edges = edges

	return nil
}

// MoveNode updates a node's canvas position and nothing else.
func (s *Store) MoveNode(id string, position models.Position) error {
	node, ok := s.Node(id)
	if !ok {
		return &Rejection{Reason: ReasonNodeNotFound, Detail: id}
	}

	node.Position = position

	return nil
}

// UpdateConfig merges a partial config into a node's config map and
// refreshes the derived IsConfigured and HasErrors flags.
func (s *Store) UpdateConfig(id string, partial map[string]any) (*models.Node, error) {
	node, ok := s.Node(id)
	if !ok {
		return nil, &Rejection{Reason: ReasonNodeNotFound, Detail: id}
	}

	spec, err := s.catalog.Spec(node.Operator)
	if err != nil {
		return nil, &Rejection{Reason: ReasonUnknownOperator, Detail: node.Operator}
	}

	if node.Config == nil {
		node.Config = make(map[string]any, len(partial))
	}

	maps.Copy(node.Config, partial)

	result := configcheck.Evaluate(node.Config, spec)
	node.IsConfigured = result.IsConfigured
	node.HasErrors = result.HasErrors

	return node, nil
}

// Connect validates and creates an edge between two nodes. The type
// compatibility check runs before the edge exists, so an illegal edge is
// never constructed, not even transiently.
func (s *Store) Connect(sourceID, sourceHandle, targetID, targetHandle string) (*models.Edge, error) {
	source, ok := s.Node(sourceID)
	if !ok {
		return nil, &Rejection{Reason: ReasonNodeNotFound, Detail: sourceID}
	}

	target, ok := s.Node(targetID)
	if !ok {
		return nil, &Rejection{Reason: ReasonNodeNotFound, Detail: targetID}
	}

	if !compat.CanConnect(source.OutputType, target.InputType) {
		s.logger.Debug("Connection rejected",
			"source_type", string(source.OutputType),
			"target_type", string(target.InputType))

		return nil, &Rejection{Reason: ReasonIncompatibleTypes}
	}

	edge := &models.Edge{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}

	s.edges = append(s.edges, edge)

	return edge, nil
}

// Clear empties both collections.
func (s *Store) Clear() {
	s.nodes = make([]*models.Node, 0)
	s.edges = make([]*models.Edge, 0)
}

// Restore replaces the store contents with deep copies of the given
// collections. Undo and redo load history snapshots through this.
func (s *Store) Restore(nodes []*models.Node, edges []*models.Edge) {
	s.nodes = models.CloneNodes(nodes)
	s.edges = models.CloneEdges(edges)

	if s.nodes == nil {
		s.nodes = make([]*models.Node, 0)
	}

	if s.edges == nil {
		s.edges = make([]*models.Edge, 0)
	}
}

// Load replaces the store contents with a persisted pipeline's graph.
func (s *Store) Load(pipeline *models.Pipeline) {
	s.Restore(pipeline.Nodes, pipeline.Edges)
}
