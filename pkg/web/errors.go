package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/pipestudio/pipestudio/pkg/graph"
	"github.com/pipestudio/pipestudio/pkg/persistence"
	"github.com/pipestudio/pipestudio/pkg/services"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
// Command rejections keep their machine-readable reason as the problem type
// so the canvas can show the matching feedback without parsing messages.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case graph.IsRejection(err):
		reason := graph.ReasonOf(err)

		status := fiber.StatusUnprocessableEntity
		if reason == graph.ReasonNodeNotFound {
			status = fiber.StatusNotFound
		}

		problem := problems.NewStatusProblem(status).
			WithInstance(c.Path()).
			WithType(string(reason)).
			WithDetail(err.Error())

		return c.Status(status).JSON(problem)

	case services.IsValidationError(err):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case persistence.IsPipelineNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("pipeline_not_found").
			WithDetail("pipeline not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
