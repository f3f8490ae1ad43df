package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rusty-replay/replay-be/internal/alert"
	"github.com/rusty-replay/replay-be/internal/config"
	"github.com/rusty-replay/replay-be/internal/events"
	"github.com/rusty-replay/replay-be/internal/handlers"
	imw "github.com/rusty-replay/replay-be/internal/http/middleware"
	"github.com/rusty-replay/replay-be/internal/issues"
	"github.com/rusty-replay/replay-be/internal/projects"
	"github.com/rusty-replay/replay-be/internal/traces"
)

func Register(e *echo.Echo, db *gorm.DB, logger *zap.Logger, otelTracer trace.Tracer, cfg config.Config) error {
	imw.Apply(e, logger)
	e.HTTPErrorHandler = newErrorHandler(logger)

	resolver, err := projects.NewResolver(db, logger)
	if err != nil {
		return err
	}

	aggregator := issues.NewAggregator(db, logger)
	recorder := events.NewRecorder(db, resolver, aggregator, logger)
	notifier := alert.NewNotifier(cfg.AlertWebhookURL, logger)
	coordinator := events.NewCoordinator(db, recorder, notifier, cfg.AlertThreshold, logger)
	eventSvc := events.NewService(db, logger)

	decoder := traces.NewDecoder(logger)
	reconstructor := traces.NewReconstructor(db, logger)
	traceSvc := traces.NewService(db, logger)

	// Handlers
	health := handlers.NewHealthHandler(db, otelTracer)
	eventsHandler := handlers.NewEventsHandler(recorder, coordinator, eventSvc, otelTracer)
	tracesHandler := handlers.NewTracesHandler(resolver, decoder, reconstructor, traceSvc, otelTracer)

	// Operational endpoints
	e.GET("/healthz", health.Liveness)
	e.GET("/readyz", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Ingestion, authenticated by api key rather than project path
	api.POST("/events", eventsHandler.Report)
	api.POST("/batch-events", eventsHandler.ReportBatch)
	api.POST("/traces", tracesHandler.Ingest)

	// Read and triage endpoints, scoped to a project
	project := api.Group("/projects/:projectID")
	project.GET("/events", eventsHandler.List)
	project.GET("/events/:id", eventsHandler.Get)
	project.PUT("/events/:id/priority", eventsHandler.SetPriority)
	project.PUT("/events/:id/assignee", eventsHandler.SetAssignee)
	project.GET("/transactions", tracesHandler.List)
	project.GET("/transactions/:id", tracesHandler.Get)

	return nil
}
