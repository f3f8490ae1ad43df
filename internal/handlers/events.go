package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/events"
	"github.com/rusty-replay/replay-be/internal/models"
)

type EventsHandler struct {
	recorder    *events.Recorder
	coordinator *events.Coordinator
	service     *events.Service
	otelTracer  trace.Tracer
}

func NewEventsHandler(recorder *events.Recorder, coordinator *events.Coordinator, service *events.Service, otelTracer trace.Tracer) *EventsHandler {
	return &EventsHandler{recorder: recorder, coordinator: coordinator, service: service, otelTracer: otelTracer}
}

func (h *EventsHandler) Report(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.Report")
	defer span.End()

	var req events.ReportRequest
	if err := c.Bind(&req); err != nil {
		return errorz.Validation("malformed request body")
	}

	event, err := h.recorder.Record(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *EventsHandler) ReportBatch(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.ReportBatch")
	defer span.End()

	var req events.BatchRequest
	if err := c.Bind(&req); err != nil {
		return errorz.Validation("malformed request body")
	}

	resp := h.coordinator.Ingest(ctx, req.Events)
	return c.JSON(http.StatusOK, resp)
}

func (h *EventsHandler) List(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.List")
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

	result, err := h.service.List(ctx, projectID, events.ListQuery{
		Search:         c.QueryParam("search"),
		StartDate:      startDate,
		EndDate:        endDate,
		Page:           page,
		PageSize:       pageSize,
		IncludeDeleted: queryBool(c, "includeDeleted"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *EventsHandler) Get(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.Get")
	defer span.End()

	projectID, err := pathID(c, "projectID")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.service.Get(ctx, projectID, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

type priorityRequest struct {
	Priority models.Priority `json:"priority"`
}

func (h *EventsHandler) SetPriority(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.SetPriority")
	defer span.End()

	projectID, err := pathID(c, "projectID")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return errorz.Validation("malformed request body")
	}

	event, err := h.service.SetPriority(ctx, projectID, eventID, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

type assigneeRequest struct {
	AssignedTo *int32 `json:"assignedTo"`
}

func (h *EventsHandler) SetAssignee(c echo.Context) error {
	ctx, span := h.otelTracer.Start(c.Request().Context(), "EventsHandler.SetAssignee")
	defer span.End()

	projectID, err := pathID(c, "projectID")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req assigneeRequest
	if err := c.Bind(&req); err != nil {
		return errorz.Validation("malformed request body")
	}

	event, err := h.service.SetAssignee(ctx, projectID, eventID, req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}
