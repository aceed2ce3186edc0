// Package main provides the PipeStudio API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
	"github.com/pipestudio/pipestudio/pkg/execfeed"
	"github.com/pipestudio/pipestudio/pkg/persistence"
	"github.com/pipestudio/pipestudio/pkg/services"
	"github.com/pipestudio/pipestudio/pkg/web"
)

type API struct {
	logger       *slog.Logger
	persistence  persistence.Persistence
	catalog      *catalog.Catalog
	eventBus     eventbus.EventBus
	feed         execfeed.StepFeed
	tracer       trace.Tracer
	validate     *validator.Validate
	sessions     *web.Sessions
	cron         *cron.Cron
	autosaveSpec string
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	cat *catalog.Catalog,
	eventBus eventbus.EventBus,
	feed execfeed.StepFeed,
	tracer trace.Tracer,
	autosaveSpec string,
) *API {
	return &API{
		logger:       logger,
		persistence:  persistence,
		catalog:      cat,
		eventBus:     eventBus,
		feed:         feed,
		tracer:       tracer,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		autosaveSpec: autosaveSpec,
	}
}

func (a *API) App() *fiber.App {
	a.sessions = web.NewSessions(a.logger, a.catalog, a.persistence, a.eventBus, a.feed, 2*time.Second)

	if err := a.sessions.ConsumeExecutionEvents(context.Background()); err != nil {
		a.logger.Error("Failed to subscribe to execution step events", "error", err)
	}

	pipelineService := services.NewPipeline(a.persistence)
	compiler := services.NewCompiler(a.logger, a.catalog, a.eventBus, a.tracer)

	handlers := web.NewAPIHandlers(pipelineService, compiler, a.sessions, a.catalog, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("PipeStudio API")
	})

	app.Get("/catalog", handlers.GetCatalog)
	app.Get("/catalog/:operatorId", handlers.GetOperatorSpec)

	p := app.Group("/pipelines")
	p.Get("/", handlers.GetPipelines)
	p.Post("/", handlers.CreatePipeline)
	p.Get("/:id", handlers.GetPipeline)
	p.Delete("/:id", handlers.DeletePipeline)

	// Editing commands:
	p.Get("/:id/graph", handlers.GetGraph)
	p.Post("/:id/nodes", handlers.AddNode)
	p.Delete("/:id/nodes/:nodeId", handlers.RemoveNode)
	p.Patch("/:id/nodes/:nodeId/position", handlers.MoveNode)
	p.Patch("/:id/nodes/:nodeId/config", handlers.UpdateNodeConfig)
	p.Post("/:id/edges", handlers.Connect)
	p.Post("/:id/clear", handlers.ClearGraph)
	p.Post("/:id/undo", handlers.Undo)
	p.Post("/:id/redo", handlers.Redo)
	p.Put("/:id/selection", handlers.SelectNode)
	p.Delete("/:id/selection", handlers.ClearSelection)
	p.Post("/:id/save", handlers.SavePipeline)

	// Compilation and execution mode:
	p.Post("/:id/compile", handlers.CompilePipeline)
	p.Post("/:id/execution", handlers.ActivateExecution)
	p.Post("/:id/execution/steps", handlers.ApplyExecutionSteps)
	p.Delete("/:id/execution", handlers.ClearExecution)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.startAutosave()

	err := app.Listen(":" + strconv.Itoa(port))

	a.Shutdown()

	return err
}

// startAutosave persists dirty editing sessions on a fixed schedule so a
// crashed server loses at most one interval of work.
func (a *API) startAutosave() {
	if a.autosaveSpec == "" {
		return
	}

	a.cron = cron.New()

	_, err := a.cron.AddFunc(a.autosaveSpec, func() {
		a.sessions.SaveDirty(context.Background())
	})
	if err != nil {
		a.logger.Error("Invalid autosave schedule, autosave disabled",
			"schedule", a.autosaveSpec, "error", err)

		a.cron = nil

		return
	}

	a.cron.Start()
	a.logger.Info("Autosave enabled", "schedule", a.autosaveSpec)
}

func (a *API) Shutdown() {
	if a.cron != nil {
		a.cron.Stop()
	}

	if a.sessions != nil {
		a.sessions.Close()
	}
}
