package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

// ScheduleInput is the full replacement payload for a schedule; edits are
// explicit, never partial patches.
type ScheduleInput struct {
	HostID    string
	Name      string
	TimeZone  string
	IsDefault bool
	Rules     []models.WeeklyRule
	Overrides []models.DateOverride
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, in ScheduleInput) (*models.Schedule, error)
	UpdateSchedule(ctx context.Context, id uint, in ScheduleInput) (*models.Schedule, error)
	GetSchedule(ctx context.Context, id uint) (*models.Schedule, error)
	ListSchedules(ctx context.Context, hostID string) ([]models.Schedule, error)
	DeleteSchedule(ctx context.Context, id uint) error
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, in ScheduleInput) (*models.Schedule, error) {
	if err := validateScheduleInput(in); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		HostID:    in.HostID,
		Name:      in.Name,
		TimeZone:  in.TimeZone,
		IsDefault: in.IsDefault,
		Rules:     in.Rules,
		Overrides: in.Overrides,
	}
	err := s.scheduleRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := s.scheduleRepo.ClearDefaultForHost(ctx, tx, in.HostID); err != nil {
				return err
			}
		}
		return s.scheduleRepo.Create(ctx, tx, schedule)
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id uint, in ScheduleInput) (*models.Schedule, error) {
	if err := validateScheduleInput(in); err != nil {
		return nil, err
	}
	existing, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	err = s.scheduleRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		if in.IsDefault && !existing.IsDefault {
			if err := s.scheduleRepo.ClearDefaultForHost(ctx, tx, existing.HostID); err != nil {
				return err
			}
		}
		updated := &models.Schedule{
			ID:        id,
			Name:      in.Name,
			TimeZone:  in.TimeZone,
			IsDefault: in.IsDefault,
		}
		if err := s.scheduleRepo.Update(ctx, tx, updated); err != nil {
			return err
		}
		return s.scheduleRepo.ReplaceRules(ctx, tx, id, in.Rules, in.Overrides)
	})
	if err != nil {
		return nil, err
	}
	return s.scheduleRepo.FindByID(ctx, id)
}

func (s *scheduleService) GetSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) ListSchedules(ctx context.Context, hostID string) ([]models.Schedule, error) {
	return s.scheduleRepo.ListByHost(ctx, hostID)
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, id uint) error {
	if _, err := s.scheduleRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return s.scheduleRepo.Delete(ctx, id)
}

func validateScheduleInput(in ScheduleInput) error {
	if _, err := time.LoadLocation(in.TimeZone); err != nil {
		return fmt.Errorf("%w: %q", availability.ErrUnknownTimeZone, in.TimeZone)
	}
	for _, rule := range in.Rules {
		if rule.Weekday < 0 || rule.Weekday > 6 {
			return fmt.Errorf("%w: weekday %d", availability.ErrInvalidWindow, rule.Weekday)
		}
		window := availability.MinuteRange{StartMinutes: rule.StartMinutes, EndMinutes: rule.EndMinutes}
		if err := window.Validate(); err != nil {
			return err
		}
	}
	for _, override := range in.Overrides {
		if _, err := time.Parse("2006-01-02", override.Date); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidOverrideDate, override.Date)
		}
		if override.Unavailable {
			continue
		}
		window := availability.MinuteRange{StartMinutes: override.StartMinutes, EndMinutes: override.EndMinutes}
		if err := window.Validate(); err != nil {
			return err
		}
	}
	return nil
}
