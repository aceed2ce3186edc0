package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/cmd"
	"github.com/pipestudio/pipestudio/pkg/log"
	"github.com/pipestudio/pipestudio/pkg/otelhelper"
)

const defaultPort = 9101

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "pipestudio-api",
		Usage:                 "Edit, validate and compile RAG pipelines",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "data-url",
				Usage:   "Storage location for pipeline documents",
				Value:   "./data",
				Sources: cli.EnvVars("DATA_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, memory, none)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL of the execution step feed (empty disables polling)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "autosave",
				Usage:   "Cron schedule for autosaving dirty sessions (empty disables)",
				Value:   "@every 30s",
				Sources: cli.EnvVars("AUTOSAVE_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for compile operations",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing PipeStudio API")

			persistence := cmd.NewPersistence(command.String("data-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)

			defer func() {
				if eventBus == nil {
					return
				}

				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			feed := cmd.NewStepFeed(command.String("redis-url"), logger)

			defer func() {
				if feed == nil {
					return
				}

				if err := feed.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close step feed", "error", err)
				}
			}()

			var tracer trace.Tracer

			if command.Bool("tracing") {
				var err error

				tracer, err = otelhelper.NewTracer(ctx, "pipestudio-api")
				if err != nil {
					logger.ErrorContext(ctx, "Failed to initialize tracer, tracing disabled", "error", err)

					tracer = nil
				}
			}

			operatorCatalog := catalog.NewCatalog(logger)
			operatorCatalog.RegisterDefaultOperators()

			api := NewAPI(
				logger,
				persistence,
				operatorCatalog,
				eventBus,
				feed,
				tracer,
				command.String("autosave"),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
