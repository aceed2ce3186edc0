// Package cmd wires infrastructure providers for the command line entrypoints.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/pipestudio/pipestudio/pkg/channels/gochannel"
	"github.com/pipestudio/pipestudio/pkg/channels/kafka"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
)

// NewEventBus creates an event bus for the given provider. The "memory"
// provider runs in-process and is the default for single-node deployments;
// "none" disables event publishing entirely.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "pipestudio")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "memory":
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create in-memory pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "none", "":
		return nil
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
