package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/dto"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/service"
)

type ScheduleHandler struct {
	svc service.ScheduleService
}

func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/schedules", h.Create)
	e.GET("/api/v1/schedules", h.List)
	e.GET("/api/v1/schedules/:id", h.Get)
	e.PUT("/api/v1/schedules/:id", h.Update)
	e.DELETE("/api/v1/schedules/:id", h.Delete)
}

func (h *ScheduleHandler) Create(c echo.Context) error {
	in, err := bindScheduleInput(c)
	if err != nil {
		return err
	}
	schedule, err := h.svc.CreateSchedule(c.Request().Context(), *in)
	if err != nil {
		return scheduleError(err)
	}
	return c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindScheduleInput(c)
	if err != nil {
		return err
	}
	schedule, err := h.svc.UpdateSchedule(c.Request().Context(), id, *in)
	if err != nil {
		return scheduleError(err)
	}
	return c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	schedule, err := h.svc.GetSchedule(c.Request().Context(), id)
	if err != nil {
		return scheduleError(err)
	}
	return c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) List(c echo.Context) error {
	hostID := c.QueryParam("hostId")
	if hostID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "hostId is required")
	}
	schedules, err := h.svc.ListSchedules(c.Request().Context(), hostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, schedules)
}

func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSchedule(c.Request().Context(), id); err != nil {
		return scheduleError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func bindScheduleInput(c echo.Context) (*service.ScheduleInput, error) {
	var req dto.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.HostID == "" || req.Name == "" || req.TimeZone == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "host_id, name and time_zone are required")
	}

	in := service.ScheduleInput{
		HostID:    req.HostID,
		Name:      req.Name,
		TimeZone:  req.TimeZone,
		IsDefault: req.IsDefault,
	}
	for _, rule := range req.Rules {
		in.Rules = append(in.Rules, models.WeeklyRule{
			Weekday:      rule.Weekday,
			StartMinutes: rule.StartMinutes,
			EndMinutes:   rule.EndMinutes,
		})
	}
	for _, override := range req.Overrides {
		in.Overrides = append(in.Overrides, models.DateOverride{
			Date:         override.Date,
			StartMinutes: override.StartMinutes,
			EndMinutes:   override.EndMinutes,
			Unavailable:  override.Unavailable,
		})
	}
	return &in, nil
}

func scheduleError(err error) error {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, availability.ErrUnknownTimeZone),
		errors.Is(err, availability.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidOverrideDate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
