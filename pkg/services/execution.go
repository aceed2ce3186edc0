package services

import (
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/overlay"
)

// executionState tracks which external job, if any, is being projected
// onto the graph.
type executionState struct {
	activeJobID string
}

// ActivateExecution enters execution mode for a job. Every node immediately
// shows the pending placeholder until its first step record arrives.
func (e *Editor) ActivateExecution(jobID string) {
	e.execution.activeJobID = jobID

	overlay.Project(e.store.Nodes(), nil)
}

// ActiveJobID returns the job currently projected, if any.
func (e *Editor) ActiveJobID() (string, bool) {
	return e.execution.activeJobID, e.execution.activeJobID != ""
}

// ApplyExecutionSteps projects a polled step-record batch onto the graph.
// A batch whose job id does not match the active job is stale and is
// discarded without touching any node. The returned count is the number of
// nodes whose status actually changed, so repeated polls with identical
// data report zero.
func (e *Editor) ApplyExecutionSteps(jobID string, steps map[string]models.ExecutionStepRecord) (int, error) {
	if e.execution.activeJobID == "" || e.execution.activeJobID != jobID {
		return 0, ErrNoActiveJob
	}

	return overlay.Project(e.store.Nodes(), steps), nil
}

// ClearExecution exits execution mode, removing the overlay from every
// node. Configuration and derived flags are untouched.
func (e *Editor) ClearExecution() int {
	e.execution.activeJobID = ""

	return overlay.Clear(e.store.Nodes())
}
