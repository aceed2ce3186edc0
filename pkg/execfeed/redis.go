package execfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// stepsKeyPrefix is where the executor publishes step records: one hash per
// job, field per step id, JSON-encoded ExecutionStepRecord values.
const stepsKeyPrefix = "pipestudio:jobs:"

// RedisFeed reads step records from the executor's Redis hashes.
type RedisFeed struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisFeed connects a step feed to Redis using a connection URL.
func NewRedisFeed(url string, logger *slog.Logger) (*RedisFeed, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &RedisFeed{
		client: redis.NewClient(opts),
		logger: logger.With("module", "execfeed"),
	}, nil
}

// NewRedisFeedWithClient wraps an existing client, used by tests.
func NewRedisFeedWithClient(client redis.UniversalClient, logger *slog.Logger) *RedisFeed {
	return &RedisFeed{
		client: client,
		logger: logger.With("module", "execfeed"),
	}
}

// FetchSteps loads the full step-record map for a job. Records that fail to
// decode are skipped rather than failing the batch; the overlay simply sees
// no update for that node until the executor rewrites the record.
func (f *RedisFeed) FetchSteps(ctx context.Context, jobID string) (map[string]models.ExecutionStepRecord, error) {
	fields, err := f.client.HGetAll(ctx, stepsKeyPrefix+jobID+":steps").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch steps for job %s: %w", jobID, err)
	}

	steps := make(map[string]models.ExecutionStepRecord, len(fields))

	for stepID, raw := range fields {
		var record models.ExecutionStepRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			f.logger.Warn("Skipping undecodable step record",
				"job_id", jobID, "step_id", stepID, "error", err)

			continue
		}

		steps[record.StepID] = record
	}

	return steps, nil
}

// Close releases the Redis connection.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
