package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

type ReservationService interface {
	Reserve(ctx context.Context, eventTypeID uint, slotStart time.Time, now time.Time) (*models.SlotReservation, error)
	Release(ctx context.Context, uid string) error
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	eventTypeRepo   repository.EventTypeRepository
	availability    AvailabilityService
	cache           SlotCache
	ttl             time.Duration
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	eventTypeRepo repository.EventTypeRepository,
	availabilitySvc AvailabilityService,
	cache SlotCache,
	ttl time.Duration,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		eventTypeRepo:   eventTypeRepo,
		availability:    availabilitySvc,
		cache:           cache,
		ttl:             ttl,
	}
}

// Reserve places a hold on a slot. The slot must currently be offered by the
// availability pipeline; holding an instant that is booked, held by someone
// else, or simply outside the schedule is a lost race.
func (s *reservationService) Reserve(ctx context.Context, eventTypeID uint, slotStart time.Time, now time.Time) (*models.SlotReservation, error) {
	eventType, err := s.eventTypeRepo.FindByID(ctx, eventTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}

	offered, err := s.slotOffered(ctx, eventType, slotStart, now)
	if err != nil {
		return nil, err
	}
	if !offered {
		return nil, ErrSlotNoLongerAvailable
	}

	reservation := &models.SlotReservation{
		UID:         uuid.NewString(),
		EventTypeID: eventType.ID,
		SlotStart:   slotStart,
		SlotEnd:     slotStart.Add(time.Duration(eventType.DurationMinutes) * time.Minute),
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	// Storage hygiene; expired rows are already invisible to readers.
	if err := s.reservationRepo.DeleteExpired(ctx, now); err != nil {
		log.Printf("[reservation] expired sweep failed: %v", err)
	}
	if s.cache != nil {
		s.cache.InvalidateEventType(ctx, eventType.ID)
	}
	return reservation, nil
}

func (s *reservationService) Release(ctx context.Context, uid string) error {
	reservation, err := s.reservationRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	deleted, err := s.reservationRepo.DeleteByUID(ctx, nil, uid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrReservationNotFound
	}
	if s.cache != nil {
		s.cache.InvalidateEventType(ctx, reservation.EventTypeID)
	}
	return nil
}

func (s *reservationService) slotOffered(ctx context.Context, eventType *models.EventType, slotStart, now time.Time) (bool, error) {
	day := slotStart.UTC().Format("2006-01-02")
	slots, err := s.availability.GetAvailableSlots(ctx, AvailabilityQuery{
		EventTypeID: eventType.ID,
		StartDate:   day,
		EndDate:     day,
		TimeZone:    "UTC",
		Now:         now,
	})
	if err != nil {
		return false, err
	}
	for _, t := range slots.Slots[day] {
		if t.Equal(slotStart) {
			return true, nil
		}
	}
	return false, nil
}
