package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/scheduling-service/internal/dto"
	"github.com/meetsync/scheduling-service/internal/service"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/slots/reservations", h.Reserve)
	e.DELETE("/api/v1/slots/reservations/:uid", h.Release)
}

func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req dto.ReserveSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.EventTypeID == 0 || req.SlotStart.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "event_type_id and slot_start are required")
	}

	reservation, err := h.svc.Reserve(c.Request().Context(), req.EventTypeID, req.SlotStart, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventTypeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSlotNoLongerAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) Release(c echo.Context) error {
	uid := c.Param("uid")
	if err := h.svc.Release(c.Request().Context(), uid); err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
