package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidEventType = errors.New("invalid event type definition")

// HostInput assigns one host to an event type. ScheduleID zero means the
// host's default schedule.
type HostInput struct {
	HostID     string
	ScheduleID uint
}

type EventTypeInput struct {
	Slug                string
	Title               string
	DurationMinutes     int
	SlotIntervalMinutes int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinimumNoticeMin    int
	BookingWindowDays   int
	SchedulingPolicy    string
	SeatsPerSlot        int
	RecurrenceFrequency string
	RecurrenceInterval  int
	RecurrenceCount     int
	Hosts               []HostInput
}

type EventTypeService interface {
	CreateEventType(ctx context.Context, in EventTypeInput) (*models.EventType, error)
	UpdateEventType(ctx context.Context, id uint, in EventTypeInput) (*models.EventType, error)
	GetEventType(ctx context.Context, id uint) (*models.EventType, error)
	GetEventTypeBySlug(ctx context.Context, slug string) (*models.EventType, error)
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	DeleteEventType(ctx context.Context, id uint) error
}

type eventTypeService struct {
	eventTypeRepo repository.EventTypeRepository
	scheduleRepo  repository.ScheduleRepository
}

func NewEventTypeService(eventTypeRepo repository.EventTypeRepository, scheduleRepo repository.ScheduleRepository) EventTypeService {
	return &eventTypeService{eventTypeRepo: eventTypeRepo, scheduleRepo: scheduleRepo}
}

func (s *eventTypeService) CreateEventType(ctx context.Context, in EventTypeInput) (*models.EventType, error) {
	normalized, err := s.normalize(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.eventTypeRepo.Create(ctx, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func (s *eventTypeService) UpdateEventType(ctx context.Context, id uint, in EventTypeInput) (*models.EventType, error) {
	existing, err := s.eventTypeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}

	normalized, err := s.normalize(ctx, in)
	if err != nil {
		return nil, err
	}
	normalized.ID = existing.ID
	normalized.CreatedAt = existing.CreatedAt

	hosts := normalized.Hosts
	normalized.Hosts = nil
	err = s.eventTypeRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.eventTypeRepo.Update(ctx, tx, normalized); err != nil {
			return err
		}
		return s.eventTypeRepo.ReplaceHosts(ctx, tx, normalized.ID, hosts)
	})
	if err != nil {
		return nil, err
	}
	return s.eventTypeRepo.FindByID(ctx, id)
}

func (s *eventTypeService) GetEventType(ctx context.Context, id uint) (*models.EventType, error) {
	eventType, err := s.eventTypeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return eventType, nil
}

func (s *eventTypeService) GetEventTypeBySlug(ctx context.Context, slug string) (*models.EventType, error) {
	eventType, err := s.eventTypeRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return eventType, nil
}

func (s *eventTypeService) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	return s.eventTypeRepo.List(ctx)
}

func (s *eventTypeService) DeleteEventType(ctx context.Context, id uint) error {
	if _, err := s.eventTypeRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventTypeNotFound
		}
		return err
	}
	return s.eventTypeRepo.Delete(ctx, id)
}

// normalize validates the definition and resolves default schedules for host
// assignments that do not name one.
func (s *eventTypeService) normalize(ctx context.Context, in EventTypeInput) (*models.EventType, error) {
	if in.Slug == "" || in.Title == "" {
		return nil, fmt.Errorf("%w: slug and title are required", ErrInvalidEventType)
	}
	if in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidEventType)
	}
	if in.SlotIntervalMinutes == 0 {
		in.SlotIntervalMinutes = in.DurationMinutes
	}
	if in.SlotIntervalMinutes < 0 || in.BufferBeforeMinutes < 0 || in.BufferAfterMinutes < 0 ||
		in.MinimumNoticeMin < 0 || in.BookingWindowDays < 0 {
		return nil, fmt.Errorf("%w: negative policy value", ErrInvalidEventType)
	}
	if !availability.Policy(in.SchedulingPolicy).Valid() {
		return nil, fmt.Errorf("%w: scheduling policy %q", ErrInvalidEventType, in.SchedulingPolicy)
	}
	if in.SeatsPerSlot == 0 {
		in.SeatsPerSlot = 1
	}
	if in.SeatsPerSlot < 1 {
		return nil, fmt.Errorf("%w: seats per slot must be at least 1", ErrInvalidEventType)
	}
	if !availability.Frequency(in.RecurrenceFrequency).Valid() {
		return nil, fmt.Errorf("%w: recurrence frequency %q", ErrInvalidEventType, in.RecurrenceFrequency)
	}
	if in.RecurrenceInterval == 0 {
		in.RecurrenceInterval = 1
	}
	if in.RecurrenceCount == 0 {
		in.RecurrenceCount = 1
	}
	if len(in.Hosts) == 0 {
		return nil, fmt.Errorf("%w: at least one host is required", ErrInvalidEventType)
	}

	hosts := make([]models.HostAssignment, 0, len(in.Hosts))
	for _, h := range in.Hosts {
		scheduleID := h.ScheduleID
		if scheduleID == 0 {
			schedule, err := s.scheduleRepo.FindDefaultByHost(ctx, h.HostID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: no default schedule for host %q", ErrScheduleNotFound, h.HostID)
				}
				return nil, err
			}
			scheduleID = schedule.ID
		}
		hosts = append(hosts, models.HostAssignment{HostID: h.HostID, ScheduleID: scheduleID})
	}

	return &models.EventType{
		Slug:                in.Slug,
		Title:               in.Title,
		DurationMinutes:     in.DurationMinutes,
		SlotIntervalMinutes: in.SlotIntervalMinutes,
		BufferBeforeMinutes: in.BufferBeforeMinutes,
		BufferAfterMinutes:  in.BufferAfterMinutes,
		MinimumNoticeMin:    in.MinimumNoticeMin,
		BookingWindowDays:   in.BookingWindowDays,
		SchedulingPolicy:    in.SchedulingPolicy,
		SeatsPerSlot:        in.SeatsPerSlot,
		RecurrenceFrequency: in.RecurrenceFrequency,
		RecurrenceInterval:  in.RecurrenceInterval,
		RecurrenceCount:     in.RecurrenceCount,
		Hosts:               hosts,
	}, nil
}
