package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/scheduling-service/internal/dto"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/bookings", h.CreateBooking)
	e.GET("/api/v1/bookings", h.ListBookings)
	e.GET("/api/v1/bookings/:uid", h.GetBooking)
	e.DELETE("/api/v1/bookings/:uid", h.CancelBooking)
	e.POST("/api/v1/bookings/:uid/reschedule", h.RescheduleBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.EventTypeID == 0 || req.Start.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "event_type_id and start are required")
	}
	if req.Attendee.Name == "" || req.Attendee.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "attendee name and email are required")
	}

	result, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		EventTypeID:      req.EventTypeID,
		Start:            req.Start,
		AttendeeName:     req.Attendee.Name,
		AttendeeEmail:    req.Attendee.Email,
		AttendeeTimeZone: req.Attendee.TimeZone,
		ReservationUID:   req.ReservationUID,
		Now:              time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventTypeNotFound),
			errors.Is(err, service.ErrReservationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSlotNoLongerAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrReservationExpired):
			return echo.NewHTTPError(http.StatusGone, err.Error())
		case errors.Is(err, service.ErrOutsideBookingWindow),
			errors.Is(err, service.ErrNoHostsAssigned):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToCreateBookingResponse(result))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookings, err := h.svc.GetBooking(c.Request().Context(), c.Param("uid"))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings)[0])
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	eventTypeID, err := strconv.ParseUint(c.QueryParam("eventTypeId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event type id")
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), uint(eventTypeID), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	bookings, err := h.svc.CancelBooking(c.Request().Context(), c.Param("uid"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyCancelled):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings)[0])
}

func (h *BookingHandler) RescheduleBooking(c echo.Context) error {
	var req dto.RescheduleBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Start.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start is required")
	}

	bookings, err := h.svc.RescheduleBooking(c.Request().Context(), c.Param("uid"), req.Start, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSlotNoLongerAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrOutsideBookingWindow):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponses(bookings)[0])
}
