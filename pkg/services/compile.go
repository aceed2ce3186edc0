package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pipestudio/pipestudio/pkg/catalog"
	"github.com/pipestudio/pipestudio/pkg/eventbus"
	"github.com/pipestudio/pipestudio/pkg/events"
	"github.com/pipestudio/pipestudio/pkg/models"
	"github.com/pipestudio/pipestudio/pkg/otelhelper"
)

// Compile issue codes.
const (
	CodeEmptyGraph        = "empty_graph"
	CodeUnknownOperator   = "unknown_operator"
	CodeNodeNotConfigured = "node_not_configured"
	CodeDanglingEdge      = "dangling_edge"
	CodeSchemaViolation   = "schema_violation"
	CodeInvalidSecretRef  = "invalid_secret_reference"
	CodeDisconnectedNode  = "disconnected_node"
)

// Compiler validates a graph for submission to the execution backend. It
// runs the deep, schema-level validation that the editing-time evaluator
// deliberately leaves out. Nodes flagged has_errors do not gate compilation
// on their own; they surface as warnings while schema violations are hard
// errors.
type Compiler struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	eventBus eventbus.EventBus
	tracer   trace.Tracer
}

// NewCompiler creates a compiler. Event bus and tracer may be nil.
func NewCompiler(logger *slog.Logger, cat *catalog.Catalog, eventBus eventbus.EventBus, tracer trace.Tracer) *Compiler {
	return &Compiler{
		logger:   logger.With("module", "compiler"),
		catalog:  cat,
		eventBus: eventBus,
		tracer:   tracer,
	}
}

// Compile validates the graph and, on success, mints an executable
// pipeline id. The graph itself is never mutated.
func (c *Compiler) Compile(ctx context.Context, pipelineID string, nodes []*models.Node, edges []*models.Edge) *models.CompileResult {
	if c.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, c.tracer, "compiler.compile",
			attribute.String(otelhelper.PipelineIDKey, pipelineID),
			attribute.Int("pipestudio.node_count", len(nodes)),
		)
		defer span.End()
	}

	result := &models.CompileResult{
		Errors:   make([]models.CompileIssue, 0),
		Warnings: make([]models.CompileIssue, 0),
	}

	if len(nodes) == 0 {
		result.Errors = append(result.Errors, models.CompileIssue{
			Code:    CodeEmptyGraph,
			Message: "pipeline has no nodes",
		})
	}

	nodeIDs := make(map[string]struct{}, len(nodes))
	connected := make(map[string]struct{}, len(nodes))

	for _, node := range nodes {
		nodeIDs[node.ID] = struct{}{}
	}

	for _, edge := range edges {
		if _, ok := nodeIDs[edge.SourceNodeID]; !ok {
			result.Errors = append(result.Errors, models.CompileIssue{
				Code:    CodeDanglingEdge,
				Message: "edge references missing source node " + edge.SourceNodeID,
			})
		}

		if _, ok := nodeIDs[edge.TargetNodeID]; !ok {
			result.Errors = append(result.Errors, models.CompileIssue{
				Code:    CodeDanglingEdge,
				Message: "edge references missing target node " + edge.TargetNodeID,
			})
		}

		connected[edge.SourceNodeID] = struct{}{}
		connected[edge.TargetNodeID] = struct{}{}
	}

	for _, node := range nodes {
		c.checkNode(ctx, node, len(nodes), connected, result)
	}

	result.Success = len(result.Errors) == 0
	if result.Success {
		result.ExecutablePipelineID = uuid.New().String()
		result.Version = "1"
	}

	c.publish(ctx, pipelineID, result)

	return result
}

func (c *Compiler) checkNode(ctx context.Context, node *models.Node, nodeCount int, connected map[string]struct{}, result *models.CompileResult) {
	spec, err := c.catalog.Spec(node.Operator)
	if err != nil {
		result.Errors = append(result.Errors, models.CompileIssue{
			Code:    CodeUnknownOperator,
			Message: "operator " + node.Operator + " is not in the catalog",
			NodeID:  node.ID,
		})

		return
	}

	if !node.IsConfigured {
		result.Errors = append(result.Errors, models.CompileIssue{
			Code:    CodeNodeNotConfigured,
			Message: node.DisplayName + " is missing required configuration",
			NodeID:  node.ID,
		})
	}

	if node.HasErrors {
		result.Warnings = append(result.Warnings, models.CompileIssue{
			Code:    CodeInvalidSecretRef,
			Message: node.DisplayName + " has a malformed secret reference",
			NodeID:  node.ID,
		})
	}

	if nodeCount > 1 {
		if _, ok := connected[node.ID]; !ok {
			result.Warnings = append(result.Warnings, models.CompileIssue{
				Code:    CodeDisconnectedNode,
				Message: node.DisplayName + " is not connected to the rest of the pipeline",
				NodeID:  node.ID,
			})
		}
	}

	c.validateSchema(ctx, node, spec, result)
}

// validateSchema runs the node config through the operator's JSON Schema.
// Presence of required fields is already covered by the configured flag;
// this catches wrong value types and out-of-range enum choices.
func (c *Compiler) validateSchema(ctx context.Context, node *models.Node, spec *models.OperatorSpec, result *models.CompileResult) {
	schemaLoader := gojsonschema.NewGoLoader(spec.ConfigSchema())
	configLoader := gojsonschema.NewGoLoader(node.Config)

	validation, err := gojsonschema.Validate(schemaLoader, configLoader)
	if err != nil {
		otelhelper.SetError(trace.SpanFromContext(ctx), err,
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.OperatorKey, node.Operator),
		)
		c.logger.Warn("Schema validation failed to run",
			"node_id", node.ID, "operator", node.Operator, "error", err)

		return
	}

	for _, issue := range validation.Errors() {
		if issue.Type() == "required" {
			// Already reported as node_not_configured.
			continue
		}

		result.Errors = append(result.Errors, models.CompileIssue{
			Code:    CodeSchemaViolation,
			Message: issue.String(),
			NodeID:  node.ID,
		})
	}
}

func (c *Compiler) publish(ctx context.Context, pipelineID string, result *models.CompileResult) {
	if c.eventBus == nil {
		return
	}

	event := events.PipelineCompiled{
		BaseEvent: events.NewBaseEvent(events.PipelineCompiledEvent, pipelineID),
		Result:    *result,
	}

	if err := c.eventBus.Publish(ctx, pipelineID, event); err != nil {
		c.logger.Warn("Failed to publish compile event", "error", err)
	}
}
