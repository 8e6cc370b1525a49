package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/dto"
	"github.com/meetsync/scheduling-service/internal/service"
)

type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func (h *AvailabilityHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/slots", h.GetSlots)
}

// GetSlots answers availability queries:
// /api/v1/slots?eventTypeId=1&start=2050-09-05&end=2050-09-09&timeZone=UTC
// The event may be referenced by id or slug; usernames builds a dynamic
// multi-person link from each named host's default schedule.
func (h *AvailabilityHandler) GetSlots(c echo.Context) error {
	q := service.AvailabilityQuery{
		EventTypeSlug: c.QueryParam("eventTypeSlug"),
		StartDate:     c.QueryParam("start"),
		EndDate:       c.QueryParam("end"),
		TimeZone:      c.QueryParam("timeZone"),
		Now:           time.Now(),
	}
	if raw := c.QueryParam("eventTypeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid event type id")
		}
		q.EventTypeID = uint(id)
	}
	if q.EventTypeID == 0 && q.EventTypeSlug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "eventTypeId or eventTypeSlug is required")
	}
	if q.StartDate == "" || q.EndDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end are required")
	}
	if q.TimeZone == "" {
		q.TimeZone = "UTC"
	}
	if raw := c.QueryParam("usernames"); raw != "" {
		q.Usernames = strings.Split(raw, ",")
	}

	slots, err := h.svc.GetAvailableSlots(c.Request().Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventTypeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, availability.ErrUnknownTimeZone),
			errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrScheduleNotFound),
			errors.Is(err, service.ErrNoHostsAssigned):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, availability.ErrInvalidInterval),
			errors.Is(err, availability.ErrInvalidWindow):
			// Data integrity fault: surfaced for operator attention, never
			// silently corrected.
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToAvailabilityResponse(slots))
}
