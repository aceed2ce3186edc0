package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipestudio/pipestudio/pkg/channels/gochannel"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
	"github.com/pipestudio/pipestudio/pkg/events"
	"github.com/pipestudio/pipestudio/pkg/models"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Logf("Failed to close event bus: %v", err)
		}
	})

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := newTestBus(t)

	received := make(chan *events.NodeAdded, 1)

	err := bus.Handle(events.NodeAddedEvent, func(ctx context.Context, event any) error {
		added, ok := event.(*events.NodeAdded)
		if ok {
			received <- added
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	sent := events.NodeAdded{
		BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, "pipeline-1"),
		NodeID:    "node-1",
		Operator:  "csv_loader",
		Position:  models.Position{X: 10, Y: 20},
	}
	require.NoError(t, bus.Publish(ctx, "pipeline-1", sent))

	select {
	case got := <-received:
		assert.Equal(t, "node-1", got.NodeID)
		assert.Equal(t, "csv_loader", got.Operator)
		assert.Equal(t, "pipeline-1", got.PipelineID)
		assert.Equal(t, events.NodeAddedEvent, got.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBus_UnhandledTypeIsIgnored(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := newTestBus(t)

	received := make(chan struct{}, 1)

	err := bus.Handle(events.GraphClearedEvent, func(ctx context.Context, event any) error {
		received <- struct{}{}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	// A type with no registered handler is acked and dropped.
	compiled := events.PipelineCompiled{
		BaseEvent: events.NewBaseEvent(events.PipelineCompiledEvent, "pipeline-1"),
	}
	require.NoError(t, bus.Publish(ctx, "pipeline-1", compiled))

	cleared := events.GraphCleared{
		BaseEvent: events.NewBaseEvent(events.GraphClearedEvent, "pipeline-1"),
	}
	require.NoError(t, bus.Publish(ctx, "pipeline-1", cleared))

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestWatermillEventBus_ExecutionStepRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := newTestBus(t)

	received := make(chan *events.ExecutionStepUpdated, 1)
	finished := make(chan *events.ExecutionFinished, 1)

	err := bus.Handle(events.ExecutionStepUpdatedEvent, func(ctx context.Context, event any) error {
		if update, ok := event.(*events.ExecutionStepUpdated); ok {
			received <- update
		}

		return nil
	})
	require.NoError(t, err)

	err = bus.Handle(events.ExecutionFinishedEvent, func(ctx context.Context, event any) error {
		if done, ok := event.(*events.ExecutionFinished); ok {
			finished <- done
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	step := events.ExecutionStepUpdated{
		BaseEvent: events.NewBaseEvent(events.ExecutionStepUpdatedEvent, "pipeline-1"),
		JobID:     "job-1",
		Step: models.ExecutionStepRecord{
			StepID:   "node-1",
			Operator: "csv_loader",
			Status:   models.ExecutionStatusRunning,
		},
	}
	require.NoError(t, bus.Publish(ctx, "pipeline-1", step))

	done := events.ExecutionFinished{
		BaseEvent: events.NewBaseEvent(events.ExecutionFinishedEvent, "pipeline-1"),
		JobID:     "job-1",
		Success:   true,
	}
	require.NoError(t, bus.Publish(ctx, "pipeline-1", done))

	select {
	case got := <-received:
		assert.Equal(t, "job-1", got.JobID)
		assert.Equal(t, "node-1", got.Step.StepID)
		assert.Equal(t, models.ExecutionStatusRunning, got.Step.Status)
	case <-ctx.Done():
		t.Fatal("timed out waiting for step event")
	}

	select {
	case got := <-finished:
		assert.Equal(t, "job-1", got.JobID)
		assert.True(t, got.Success)
	case <-ctx.Done():
		t.Fatal("timed out waiting for finished event")
	}
}
