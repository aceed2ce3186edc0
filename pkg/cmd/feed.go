package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pipestudio/pipestudio/pkg/execfeed"
)

// NewStepFeed creates the execution step feed, or nil when no feed URL is
// configured. Without a feed, execution overlays only update through the
// push endpoint.
func NewStepFeed(redisURL string, logger *slog.Logger) execfeed.StepFeed {
	if redisURL == "" {
		return nil
	}

	feed, err := execfeed.NewRedisFeed(redisURL, logger)
	if err != nil {
		panic(fmt.Errorf("failed to connect execution step feed: %w", err))
	}

	return feed
}
