// Package events defines event types emitted while editing and executing
// pipelines.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/pipestudio/pipestudio/pkg/models"
)

type EventType string

// Kafka topics.
const Topic = "pipestudio.events"                   // Graph editing and compile events
const ExecutionTopic = "pipestudio.execution.steps" // Execution step feed

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Graph editing events.
	NodeAddedEvent      EventType = "pipeline.node.added"
	NodeRemovedEvent    EventType = "pipeline.node.removed"
	NodeConfiguredEvent EventType = "pipeline.node.configured"
	EdgeConnectedEvent  EventType = "pipeline.edge.connected"
	GraphClearedEvent   EventType = "pipeline.cleared"

	// Compile and execution events.
	PipelineCompiledEvent     EventType = "pipeline.compiled"
	ExecutionStepUpdatedEvent EventType = "execution.step.updated"
	ExecutionFinishedEvent    EventType = "execution.finished"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	PipelineID string         `json:"pipeline_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a fresh event envelope.
func NewBaseEvent(eventType EventType, pipelineID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		PipelineID: pipelineID,
	}
}

type NodeAdded struct {
	BaseEvent

	NodeID   string          `json:"node_id"`
	Operator string          `json:"operator"`
	Position models.Position `json:"position"`
}

func (e NodeAdded) GetType() EventType { return NodeAddedEvent }

type NodeRemoved struct {
	BaseEvent

	NodeID       string `json:"node_id"`
	EdgesRemoved int    `json:"edges_removed"`
}

func (e NodeRemoved) GetType() EventType { return NodeRemovedEvent }

type NodeConfigured struct {
	BaseEvent

	NodeID       string `json:"node_id"`
	IsConfigured bool   `json:"is_configured"`
	HasErrors    bool   `json:"has_errors"`
}

func (e NodeConfigured) GetType() EventType { return NodeConfiguredEvent }

type EdgeConnected struct {
	BaseEvent

	EdgeID       string `json:"edge_id"`
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
}

func (e EdgeConnected) GetType() EventType { return EdgeConnectedEvent }

type GraphCleared struct {
	BaseEvent
}

func (e GraphCleared) GetType() EventType { return GraphClearedEvent }

type PipelineCompiled struct {
	BaseEvent

	Result models.CompileResult `json:"result"`
}

func (e PipelineCompiled) GetType() EventType { return PipelineCompiledEvent }

// ExecutionStepUpdated is the streamed variant of the execution step feed:
// the executor publishes one event per step transition.
type ExecutionStepUpdated struct {
	BaseEvent

	JobID string                     `json:"job_id"`
	Step  models.ExecutionStepRecord `json:"step"`
}

func (e ExecutionStepUpdated) GetType() EventType { return ExecutionStepUpdatedEvent }

type ExecutionFinished struct {
	BaseEvent

	JobID   string `json:"job_id"`
	Success bool   `json:"success"`
}

func (e ExecutionFinished) GetType() EventType { return ExecutionFinishedEvent }
