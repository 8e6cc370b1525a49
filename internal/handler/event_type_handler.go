package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/scheduling-service/internal/dto"
	"github.com/meetsync/scheduling-service/internal/service"
)

type EventTypeHandler struct {
	svc service.EventTypeService
}

func NewEventTypeHandler(svc service.EventTypeService) *EventTypeHandler {
	return &EventTypeHandler{svc: svc}
}

func (h *EventTypeHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/event-types", h.Create)
	e.GET("/api/v1/event-types", h.List)
	e.GET("/api/v1/event-types/:id", h.Get)
	e.PUT("/api/v1/event-types/:id", h.Update)
	e.DELETE("/api/v1/event-types/:id", h.Delete)
}

func (h *EventTypeHandler) Create(c echo.Context) error {
	in, err := bindEventTypeInput(c)
	if err != nil {
		return err
	}
	eventType, err := h.svc.CreateEventType(c.Request().Context(), *in)
	if err != nil {
		return eventTypeError(err)
	}
	return c.JSON(http.StatusCreated, eventType)
}

func (h *EventTypeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindEventTypeInput(c)
	if err != nil {
		return err
	}
	eventType, err := h.svc.UpdateEventType(c.Request().Context(), id, *in)
	if err != nil {
		return eventTypeError(err)
	}
	return c.JSON(http.StatusOK, eventType)
}

func (h *EventTypeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	eventType, err := h.svc.GetEventType(c.Request().Context(), id)
	if err != nil {
		return eventTypeError(err)
	}
	return c.JSON(http.StatusOK, eventType)
}

func (h *EventTypeHandler) List(c echo.Context) error {
	eventTypes, err := h.svc.ListEventTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, eventTypes)
}

func (h *EventTypeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEventType(c.Request().Context(), id); err != nil {
		return eventTypeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func bindEventTypeInput(c echo.Context) (*service.EventTypeInput, error) {
	var req dto.EventTypeRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := service.EventTypeInput{
		Slug:                req.Slug,
		Title:               req.Title,
		DurationMinutes:     req.DurationMinutes,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
		BufferBeforeMinutes: req.BufferBeforeMinutes,
		BufferAfterMinutes:  req.BufferAfterMinutes,
		MinimumNoticeMin:    req.MinimumNoticeMin,
		BookingWindowDays:   req.BookingWindowDays,
		SchedulingPolicy:    req.SchedulingPolicy,
		SeatsPerSlot:        req.SeatsPerSlot,
		RecurrenceFrequency: req.RecurrenceFrequency,
		RecurrenceInterval:  req.RecurrenceInterval,
		RecurrenceCount:     req.RecurrenceCount,
	}
	for _, host := range req.Hosts {
		in.Hosts = append(in.Hosts, service.HostInput{HostID: host.HostID, ScheduleID: host.ScheduleID})
	}
	return &in, nil
}

func eventTypeError(err error) error {
	switch {
	case errors.Is(err, service.ErrEventTypeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrScheduleNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
