package web

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
	"github.com/pipestudio/pipestudio/pkg/events"
	"github.com/pipestudio/pipestudio/pkg/execfeed"
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/persistence"
	"github.com/pipestudio/pipestudio/pkg/services"
)

// session is one open editor plus its serialization lock. The editor itself
// has no locking; every command for a pipeline goes through the session
// mutex, which makes the HTTP layer the single writer the engine expects.
type session struct {
	editor   *services.Editor
	mu       sync.Mutex
	stopPoll context.CancelFunc
}

// Sessions owns the open editor sessions, one per pipeline, created lazily
// on first command and kept until Close.
type Sessions struct {
	logger       *slog.Logger
	catalog      *catalog.Catalog
	persistence  persistence.Persistence
	eventBus     eventbus.EventBus
	feed         execfeed.StepFeed
	pollInterval time.Duration

	mu   sync.Mutex
	open map[string]*session
}

// NewSessions creates the session manager. Event bus and feed may be nil;
// without a feed, execution mode only updates through the push endpoint.
func NewSessions(
	logger *slog.Logger,
	cat *catalog.Catalog,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	feed execfeed.StepFeed,
	pollInterval time.Duration,
) *Sessions {
	return &Sessions{
		logger:       logger.With("module", "sessions"),
		catalog:      cat,
		persistence:  persistence,
		eventBus:     eventBus,
		feed:         feed,
		pollInterval: pollInterval,
		open:         make(map[string]*session),
	}
}

func (s *Sessions) get(ctx context.Context, pipelineID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.open[pipelineID]; ok {
		return sess, nil
	}

	editor := services.NewEditor(s.logger, s.catalog, s.persistence, s.eventBus, pipelineID)
	if err := editor.Load(ctx); err != nil {
		return nil, err
	}

	sess := &session{editor: editor}
	s.open[pipelineID] = sess

	return sess, nil
}

// peek returns an already-open session without creating one. Streamed
// execution events for pipelines nobody is editing are dropped here.
func (s *Sessions) peek(pipelineID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.open[pipelineID]

	return sess, ok
}

// Do runs one command against a pipeline's editor, opening the session on
// first use. Commands for the same pipeline are serialized.
func (s *Sessions) Do(ctx context.Context, pipelineID string, fn func(*services.Editor) error) error {
	sess, err := s.get(ctx, pipelineID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return fn(sess.editor)
}

// StartExecution switches a session into execution mode and, when a feed is
// configured, starts polling the job's step records in the background.
func (s *Sessions) StartExecution(ctx context.Context, pipelineID, jobID string) error {
	sess, err := s.get(ctx, pipelineID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stopPoll != nil {
		sess.stopPoll()
		sess.stopPoll = nil
	}

	sess.editor.ActivateExecution(jobID)

	if s.feed == nil {
		return nil
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	sess.stopPoll = cancel

	poller := execfeed.NewPoller(s.feed, s.pollInterval, s.logger)

	go poller.Run(pollCtx, jobID, func(jobID string, steps map[string]models.ExecutionStepRecord) {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		// A stale batch for a previous job is rejected by the editor.
		if _, err := sess.editor.ApplyExecutionSteps(jobID, steps); err != nil {
			s.logger.Debug("Dropped execution step batch",
				"pipeline_id", pipelineID, "job_id", jobID, "error", err)
		}
	})

	return nil
}

// StopExecution leaves execution mode and stops the poller, if any.
func (s *Sessions) StopExecution(ctx context.Context, pipelineID string) (int, error) {
	sess, err := s.get(ctx, pipelineID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stopPoll != nil {
		sess.stopPoll()
		sess.stopPoll = nil
	}

	return sess.editor.ClearExecution(), nil
}

// ConsumeExecutionEvents wires the streamed variant of the execution step
// feed: step updates published on the event bus are applied to the owning
// session the same way polled batches are, with the same stale-job
// discard. No-op without a bus.
func (s *Sessions) ConsumeExecutionEvents(ctx context.Context) error {
	if s.eventBus == nil {
		return nil
	}

	err := s.eventBus.Handle(events.ExecutionStepUpdatedEvent, func(_ context.Context, event any) error {
		update, ok := event.(*events.ExecutionStepUpdated)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event, events.ExecutionStepUpdatedEvent)
		}

		s.applyStreamedStep(update)

		return nil
	})
	if err != nil {
		return err
	}

	err = s.eventBus.Handle(events.ExecutionFinishedEvent, func(_ context.Context, event any) error {
		finished, ok := event.(*events.ExecutionFinished)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event, events.ExecutionFinishedEvent)
		}

		s.finishStreamedJob(finished)

		return nil
	})
	if err != nil {
		return err
	}

	return s.eventBus.Subscribe(ctx)
}

func (s *Sessions) applyStreamedStep(update *events.ExecutionStepUpdated) {
	sess, ok := s.peek(update.PipelineID)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	steps := map[string]models.ExecutionStepRecord{update.Step.StepID: update.Step}

	if _, err := sess.editor.ApplyExecutionSteps(update.JobID, steps); err != nil {
		s.logger.Debug("Dropped streamed execution step",
			"pipeline_id", update.PipelineID, "job_id", update.JobID, "error", err)
	}
}

// finishStreamedJob stops polling once the executor reports the job done.
// The overlay stays on the graph until the user leaves execution mode.
func (s *Sessions) finishStreamedJob(finished *events.ExecutionFinished) {
	sess, ok := s.peek(finished.PipelineID)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if jobID, active := sess.editor.ActiveJobID(); !active || jobID != finished.JobID {
		return
	}

	if sess.stopPoll != nil {
		sess.stopPoll()
		sess.stopPoll = nil
	}

	s.logger.Info("Execution finished",
		"pipeline_id", finished.PipelineID, "job_id", finished.JobID, "success", finished.Success)
}

// SaveDirty persists every open session with unsaved changes. It is run on
// a schedule by the API process.
func (s *Sessions) SaveDirty(ctx context.Context) {
	s.mu.Lock()
	sessions := make(map[string]*session, len(s.open))
	for id, sess := range s.open {
		sessions[id] = sess
	}
	s.mu.Unlock()

	for pipelineID, sess := range sessions {
		sess.mu.Lock()

		if sess.editor.Dirty() {
			if err := sess.editor.Save(ctx); err != nil {
				s.logger.Error("Autosave failed", "pipeline_id", pipelineID, "error", err)
			} else {
				s.logger.Debug("Autosaved pipeline", "pipeline_id", pipelineID)
			}
		}

		sess.mu.Unlock()
	}
}

// Drop closes a pipeline's session, stopping any poller. Unsaved changes
// are discarded.
func (s *Sessions) Drop(pipelineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.open[pipelineID]; ok {
		if sess.stopPoll != nil {
			sess.stopPoll()
		}

		delete(s.open, pipelineID)
	}
}

// Close stops all pollers and drops every session.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.open {
		if sess.stopPoll != nil {
			sess.stopPoll()
		}

		delete(s.open, id)
	}
}
