// Package overlay projects externally supplied execution step status onto
// graph nodes. The overlay writes only the ExecutionStatus field; node
// configuration and derived flags stay owned by editing commands, so a
// status poll can never conflict with a concurrent edit.
package overlay

import "github.com/pipestudio/pipestudio/pkg/models"

// Project merges a step-status map onto the nodes, keyed by node id. A node
// with a matching record takes that record's status; a node without one is
// set to the pending placeholder, since Project only runs while execution
// mode is active. The projection is idempotent: statuses are compared
// before replacement and the returned count is zero for an unchanged map,
// so repeated polling produces no spurious change notifications.
func Project(nodes []*models.Node, stepsByNodeID map[string]models.ExecutionStepRecord) int {
	changed := 0

	for _, node := range nodes {
		status := models.ExecutionStatusPending
		if record, ok := stepsByNodeID[node.ID]; ok {
			status = record.Status
		}

		if node.ExecutionStatus != nil && *node.ExecutionStatus == status {
			continue
		}

		value := status
		node.ExecutionStatus = &value
		changed++
	}

	return changed
}

// Clear removes the execution overlay from every node and is the only way
// to exit execution mode. It never touches config or the derived flags.
func Clear(nodes []*models.Node) int {
	changed := 0

	for _, node := range nodes {
		if node.ExecutionStatus == nil {
			continue
		}

		node.ExecutionStatus = nil
		changed++
	}

	return changed
}
