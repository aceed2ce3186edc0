package execfeed

import (
	"context"
	"log/slog"
	"time"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// ApplyFunc receives one polled batch. The callback runs on the poller's
// goroutine; implementations hand the batch to the single-writer command
// path and drop it there if the job id no longer matches the active job.
type ApplyFunc func(jobID string, steps map[string]models.ExecutionStepRecord)

// Poller periodically fetches step records for one job and forwards them.
type Poller struct {
	feed     StepFeed
	logger   *slog.Logger
	interval time.Duration
}

// NewPoller creates a poller with the given cadence.
func NewPoller(feed StepFeed, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Poller{
		feed:     feed,
		logger:   logger.With("module", "execfeed"),
		interval: interval,
	}
}

// Run polls until the context is cancelled. Feed failures are logged and
// skipped: the overlay simply stops updating until the feed recovers.
func (p *Poller) Run(ctx context.Context, jobID string, apply ApplyFunc) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			steps, err := p.feed.FetchSteps(ctx, jobID)
			if err != nil {
				p.logger.Warn("Execution feed poll failed", "job_id", jobID, "error", err)

				continue
			}

			apply(jobID, steps)
		}
	}
}
