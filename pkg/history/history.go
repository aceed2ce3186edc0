// Package history provides snapshot-based undo and redo over the pipeline
// graph. Snapshots are whole-graph deep copies rather than diffs, which
// stays correct under arbitrary batched mutation at the cost of O(graph)
// memory per snapshot. Callers decide the cadence: one snapshot per
// discrete command and one at the end of a continuous move gesture.
package history

import (
	"time"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// DefaultMaxDepth bounds the number of retained snapshots. Once exceeded,
// the oldest snapshot is discarded first.
const DefaultMaxDepth = 50

// Snapshot is an immutable deep copy of the graph at one point in time.
type Snapshot struct {
	Sequence uint64
	Nodes    []*models.Node
	Edges    []*models.Edge
	TakenAt  time.Time
}

// Manager holds the bounded, ordered snapshot list and a cursor that always
// points at a valid snapshot.
type Manager struct {
	maxDepth  int
	snapshots []*Snapshot
	cursor    int
	sequence  uint64
}

// NewManager creates a history manager retaining at most maxDepth
// snapshots. Non-positive depths fall back to DefaultMaxDepth.
func NewManager(maxDepth int) *Manager {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &Manager{
		maxDepth:  maxDepth,
		snapshots: make([]*Snapshot, 0, maxDepth),
		cursor:    -1,
	}
}

// Push records the current graph state. Any snapshots past the cursor (the
// redo branch) are discarded, the new snapshot is appended and becomes
// current, and the oldest entry is evicted if the depth bound is exceeded.
func (m *Manager) Push(nodes []*models.Node, edges []*models.Edge) *Snapshot {
	m.snapshots = m.snapshots[:m.cursor+1]

	m.sequence++
	snapshot := &Snapshot{
		Sequence: m.sequence,
		Nodes:    models.CloneNodes(nodes),
		Edges:    models.CloneEdges(edges),
		TakenAt:  time.Now().UTC(),
	}

	m.snapshots = append(m.snapshots, snapshot)

	if len(m.snapshots) > m.maxDepth {
		m.snapshots = m.snapshots[1:]
	}

	m.cursor = len(m.snapshots) - 1

	return snapshot
}

// Undo moves the cursor back one snapshot and returns it. It is a no-op
// returning false when already at the oldest retained snapshot.
func (m *Manager) Undo() (*Snapshot, bool) {
	if !m.CanUndo() {
		return nil, false
	}

	m.cursor--

	return m.snapshots[m.cursor], true
}

// Redo moves the cursor forward one snapshot and returns it, or false when
// there is nothing to redo.
func (m *Manager) Redo() (*Snapshot, bool) {
	if !m.CanRedo() {
		return nil, false
	}

	m.cursor++

	return m.snapshots[m.cursor], true
}

// CanUndo reports whether an older snapshot is retained.
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether a redo branch exists.
func (m *Manager) CanRedo() bool {
	return m.cursor >= 0 && m.cursor < len(m.snapshots)-1
}

// Current returns the snapshot at the cursor, or false when no snapshot
// has been taken yet.
func (m *Manager) Current() (*Snapshot, bool) {
	if m.cursor < 0 {
		return nil, false
	}

	return m.snapshots[m.cursor], true
}

// Depth returns the number of retained snapshots.
func (m *Manager) Depth() int {
	return len(m.snapshots)
}
