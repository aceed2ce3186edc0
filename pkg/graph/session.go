package graph

// Session carries the per-editing-session state that is not part of the
// graph itself. It is an explicit value passed through commands, never
// ambient global state. At most one node is selected at a time.
type Session struct {
	selectedNodeID string
}

// NewSession returns a session with nothing selected.
func NewSession() *Session {
	return &Session{}
}

// Select marks a node as the selected one, replacing any prior selection.
func (s *Session) Select(nodeID string) {
	s.selectedNodeID = nodeID
}

// ClearSelection removes the selection.
func (s *Session) ClearSelection() {
	s.selectedNodeID = ""
}

// SelectedNodeID returns the selected node id and whether one is selected.
func (s *Session) SelectedNodeID() (string, bool) {
	return s.selectedNodeID, s.selectedNodeID != ""
}

// NodeRemoved drops the selection if the removed node was selected.
func (s *Session) NodeRemoved(nodeID string) {
	if s.selectedNodeID == nodeID {
		s.selectedNodeID = ""
	}
}
