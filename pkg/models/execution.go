package models

import "time"

// ExecutionStepRecord is one step of an external job run, supplied by the
// execution feed. StepID joins to Node.ID; only Status is ever projected
// onto the graph.
type ExecutionStepRecord struct {
	StepID       string          `json:"step_id"`
	Operator     string          `json:"operator"`
	Status       ExecutionStatus `json:"status"`
	InputData    map[string]any  `json:"input_data,omitempty"`
	OutputData   map[string]any  `json:"output_data,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}
