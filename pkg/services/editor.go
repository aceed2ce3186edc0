package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
	"github.com/pipestudio/pipestudio/pkg/events"
	"github.com/pipestudio/pipestudio/pkg/graph"
	"github.com/pipestudio/pipestudio/pkg/history"
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/overlay"
	"github.com/pipestudio/pipestudio/pkg/persistence"
)

// Editor orchestrates one editing session over a pipeline graph: it routes
// discrete commands to the graph store, snapshots history after each one,
// tracks the selection and the execution overlay, and persists the result.
// All commands run on the host's single command path; the editor has no
// internal locking.
type Editor struct {
	logger      *slog.Logger
	store       *graph.Store
	history     *history.Manager
	session     *graph.Session
	execution   executionState
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	pipelineID  string
	dirty       bool
}

// NewEditor creates an editor for one pipeline. The event bus may be nil
// when nothing subscribes to graph events.
func NewEditor(
	logger *slog.Logger,
	cat *catalog.Catalog,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	pipelineID string,
) *Editor {
	return &Editor{
		logger:      logger.With("module", "editor", "pipeline_id", pipelineID),
		store:       graph.NewStore(logger, cat),
		history:     history.NewManager(history.DefaultMaxDepth),
		session:     graph.NewSession(),
		persistence: persistence,
		eventBus:    eventBus,
		pipelineID:  pipelineID,
	}
}

// Load pulls the persisted graph into the store and seeds history with it.
func (e *Editor) Load(ctx context.Context) error {
	pipeline, err := e.persistence.PipelineByID(ctx, e.pipelineID)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	e.store.Load(pipeline)
	e.history.Push(e.store.Nodes(), e.store.Edges())
	e.dirty = false

	return nil
}

// Nodes returns the current node collection, read-only.
func (e *Editor) Nodes() []*models.Node {
	return e.store.Nodes()
}

// Edges returns the current edge collection, read-only.
func (e *Editor) Edges() []*models.Edge {
	return e.store.Edges()
}

// Dirty reports whether the graph has unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// AddNode instantiates an operator at a canvas position.
func (e *Editor) AddNode(ctx context.Context, operatorID string, position models.Position) (*models.Node, error) {
	node, err := e.store.AddNode(operatorID, position)
	if err != nil {
		return nil, err
	}

	e.snapshot()
	e.publish(ctx, events.NodeAdded{
		BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, e.pipelineID),
		NodeID:    node.ID,
		Operator:  node.Operator,
		Position:  node.Position,
	})

	return node, nil
}

// RemoveNode deletes a node, cascades to its edges and drops a stale
// selection.
func (e *Editor) RemoveNode(ctx context.Context, nodeID string) error {
	edgesBefore := len(e.store.Edges())

	if err := e.store.RemoveNode(nodeID); err != nil {
		return err
	}

	e.session.NodeRemoved(nodeID)
	e.snapshot()
	e.publish(ctx, events.NodeRemoved{
		BaseEvent:    events.NewBaseEvent(events.NodeRemovedEvent, e.pipelineID),
		NodeID:       nodeID,
		EdgesRemoved: edgesBefore - len(e.store.Edges()),
	})

	return nil
}

// MoveNode updates a node's position without snapshotting; a continuous
// drag gesture produces many intermediate positions and only the final one
// belongs in history.
func (e *Editor) MoveNode(nodeID string, position models.Position) error {
	if err := e.store.MoveNode(nodeID, position); err != nil {
		return err
	}

	e.dirty = true

	return nil
}

// EndMove snapshots once at the end of a move gesture.
func (e *Editor) EndMove() {
	e.snapshot()
}

// UpdateConfig merges a partial config into a node and refreshes its flags.
func (e *Editor) UpdateConfig(ctx context.Context, nodeID string, partial map[string]any) (*models.Node, error) {
	node, err := e.store.UpdateConfig(nodeID, partial)
	if err != nil {
		return nil, err
	}

	e.snapshot()
	e.publish(ctx, events.NodeConfigured{
		BaseEvent:    events.NewBaseEvent(events.NodeConfiguredEvent, e.pipelineID),
		NodeID:       node.ID,
		IsConfigured: node.IsConfigured,
		HasErrors:    node.HasErrors,
	})

	return node, nil
}

// Connect validates and creates an edge.
func (e *Editor) Connect(ctx context.Context, sourceID, sourceHandle, targetID, targetHandle string) (*models.Edge, error) {
	edge, err := e.store.Connect(sourceID, sourceHandle, targetID, targetHandle)
	if err != nil {
		return nil, err
	}

	e.snapshot()
	e.publish(ctx, events.EdgeConnected{
		BaseEvent:    events.NewBaseEvent(events.EdgeConnectedEvent, e.pipelineID),
		EdgeID:       edge.ID,
		SourceNodeID: edge.SourceNodeID,
		TargetNodeID: edge.TargetNodeID,
	})

	return edge, nil
}

// Clear empties the graph.
func (e *Editor) Clear(ctx context.Context) {
	e.store.Clear()
	e.session.ClearSelection()
	e.snapshot()
	e.publish(ctx, events.GraphCleared{
		BaseEvent: events.NewBaseEvent(events.GraphClearedEvent, e.pipelineID),
	})
}

// Undo restores the previous snapshot. It reports false when already at
// the oldest retained state.
func (e *Editor) Undo() bool {
	snapshot, ok := e.history.Undo()
	if !ok {
		return false
	}

	e.store.Restore(snapshot.Nodes, snapshot.Edges)
	e.dirty = true

	return true
}

// Redo restores the next snapshot, the mirror of Undo.
func (e *Editor) Redo() bool {
	snapshot, ok := e.history.Redo()
	if !ok {
		return false
	}

	e.store.Restore(snapshot.Nodes, snapshot.Edges)
	e.dirty = true

	return true
}

// CanUndo reports whether an older snapshot is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether an undone snapshot is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// SelectNode marks a node as selected. At most one node is selected at a
// time; selecting replaces any prior selection.
func (e *Editor) SelectNode(nodeID string) error {
	if _, ok := e.store.Node(nodeID); !ok {
		return &graph.Rejection{Reason: graph.ReasonNodeNotFound, Detail: nodeID}
	}

	e.session.Select(nodeID)

	return nil
}

// ClearSelection removes the selection.
func (e *Editor) ClearSelection() {
	e.session.ClearSelection()
}

// SelectedNodeID returns the selected node id, if any.
func (e *Editor) SelectedNodeID() (string, bool) {
	return e.session.SelectedNodeID()
}

// Save persists the current graph back into the pipeline document.
func (e *Editor) Save(ctx context.Context) error {
	pipeline, err := e.persistence.PipelineByID(ctx, e.pipelineID)
	if err != nil {
		return fmt.Errorf("failed to load pipeline for save: %w", err)
	}

	pipeline.Nodes = models.CloneNodes(e.store.Nodes())
	pipeline.Edges = models.CloneEdges(e.store.Edges())

	// The execution overlay is session state, not document state.
	overlay.Clear(pipeline.Nodes)

	if err := e.persistence.SavePipeline(ctx, pipeline); err != nil {
		return fmt.Errorf("failed to save pipeline: %w", err)
	}

	e.dirty = false

	return nil
}

func (e *Editor) snapshot() {
	e.history.Push(e.store.Nodes(), e.store.Edges())
	e.dirty = true
}

// publish sends an event best-effort: a broken bus degrades to a log line,
// never to a failed command.
func (e *Editor) publish(ctx context.Context, event eventbus.Event) {
	if e.eventBus == nil {
		return
	}

	if err := e.eventBus.Publish(ctx, e.pipelineID, event); err != nil {
		e.logger.Warn("Failed to publish event", "event_type", string(event.GetType()), "error", err)
	}
}
