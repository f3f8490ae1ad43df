package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/projects"
	"github.com/rusty-replay/replay-be/internal/traces"
)

const defaultTraceEnvironment = "production"

type TracesHandler struct {
	resolver      *projects.Resolver
	decoder       *traces.Decoder
	reconstructor *traces.Reconstructor
	service       *traces.Service
	otelTracer    trace.Tracer
}

func NewTracesHandler(resolver *projects.Resolver, decoder *traces.Decoder, reconstructor *traces.Reconstructor, service *traces.Service, otelTracer trace.Tracer) *TracesHandler {
	return &TracesHandler{
		resolver:      resolver,
		decoder:       decoder,
		reconstructor: reconstructor,
		service:       service,
		otelTracer:    otelTracer,
	}
}

// Ingest accepts a binary OTLP trace export. The whole payload is one
// atomic unit: decode failures reject it outright, and any insert
// failure rolls back every row.
func (h *TracesHandler) Ingest(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "TracesHandler.Ingest")
	defer span.End()

	projectID, err := h.resolver.ResolveAPIKey(ctx, apiKey(c))
	if err != nil {
		return err
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errorz.Validation("failed to read request body")
	}

	rawSpans, err := h.decoder.Decode(payload)
	if err != nil {
		return err
	}

	environment := c.QueryParam("environment")
	if environment == "" {
		environment = defaultTraceEnvironment
	}

	if err := h.reconstructor.Ingest(ctx, projectID, environment, rawSpans); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *TracesHandler) List(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "TracesHandler.List")
	defer span.End()

	projectID, err := pathID(c, "projectID")
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "pageSize", 0)
	if err != nil {
		return err
	}
	startDate, err := queryTime(c, "startDate")
	if err != nil {
		return err
	}
	endDate, err := queryTime(c, "endDate")
	if err != nil {
		return err
	}

	result, err := h.service.List(ctx, projectID, traces.ListQuery{
		Search:    c.QueryParam("search"),
		StartDate: startDate,
		EndDate:   endDate,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *TracesHandler) Get(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "TracesHandler.Get")
	defer span.End()

	projectID, err := pathID(c, "projectID")
	if err != nil {
		return err
	}
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.service.Get(ctx, projectID, transactionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
