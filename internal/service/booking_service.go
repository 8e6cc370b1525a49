package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

// CreateBookingInput carries one booking attempt. Now is caller-supplied so
// notice, window and reservation expiry checks are deterministic.
type CreateBookingInput struct {
	EventTypeID      uint
	Start            time.Time
	AttendeeName     string
	AttendeeEmail    string
	AttendeeTimeZone string
	ReservationUID   string
	Now              time.Time
}

// BookingResult is a tagged union: a single booking, or the full recurring
// series. Bookings holds one row per host per occurrence, chronological.
type BookingResult struct {
	Recurring bool
	Bookings  []models.Booking
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error)
	CancelBooking(ctx context.Context, uid string) ([]models.Booking, error)
	RescheduleBooking(ctx context.Context, uid string, newStart, now time.Time) ([]models.Booking, error)
	GetBooking(ctx context.Context, uid string) ([]models.Booking, error)
	ListBookings(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo     repository.BookingRepository
	eventTypeRepo   repository.EventTypeRepository
	reservationRepo repository.ReservationRepository
	publisher       EventPublisher
	cache           SlotCache
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventTypeRepo repository.EventTypeRepository,
	reservationRepo repository.ReservationRepository,
	publisher EventPublisher,
	cache SlotCache,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		eventTypeRepo:   eventTypeRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
		cache:           cache,
	}
}

// CreateBooking confirms a slot inside one transaction. The FOR UPDATE lock
// on the event type row serializes racing attempts: two requesters fighting
// over the last slot get exactly one success and one ErrSlotNoLongerAvailable.
func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error) {
	var (
		created   []models.Booking
		recurring bool
		eventID   uint
	)

	err := s.bookingRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		eventType, err := s.eventTypeRepo.FindByIDForUpdate(ctx, tx, in.EventTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventTypeNotFound
			}
			return err
		}
		eventID = eventType.ID
		if len(eventType.Hosts) == 0 {
			return ErrNoHostsAssigned
		}

		if !availability.Bookable(in.Start, in.Now,
			time.Duration(eventType.MinimumNoticeMin)*time.Minute,
			time.Duration(eventType.BookingWindowDays)*24*time.Hour) {
			return ErrOutsideBookingWindow
		}

		if err := s.consumeReservation(ctx, tx, eventType, in); err != nil {
			return err
		}

		occurrences, err := availability.ExpandRecurrence(in.Start,
			availability.Frequency(eventType.RecurrenceFrequency),
			eventType.RecurrenceInterval, eventType.RecurrenceCount)
		if err != nil {
			return err
		}
		recurring = len(occurrences) > 1

		hostIDs, err := s.pickHosts(ctx, tx, eventType, occurrences, in.Now)
		if err != nil {
			return err
		}

		duration := time.Duration(eventType.DurationMinutes) * time.Minute
		var seriesID *string
		if recurring {
			id := uuid.NewString()
			seriesID = &id
		}
		for _, start := range occurrences {
			occurrenceUID := uuid.NewString()
			for _, hostID := range hostIDs {
				created = append(created, models.Booking{
					UID:               occurrenceUID,
					EventTypeID:       eventType.ID,
					HostID:            hostID,
					AttendeeName:      in.AttendeeName,
					AttendeeEmail:     in.AttendeeEmail,
					AttendeeTimeZone:  in.AttendeeTimeZone,
					StartTime:         start,
					EndTime:           start.Add(duration),
					Status:            models.StatusAccepted,
					RecurringSeriesID: seriesID,
				})
			}
		}
		return s.bookingRepo.Create(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.created", created)
	if s.cache != nil {
		s.cache.InvalidateEventType(ctx, eventID)
	}
	return &BookingResult{Recurring: recurring, Bookings: created}, nil
}

// consumeReservation validates and deletes the caller's hold inside the
// booking transaction, so the hold disappears atomically with confirmation.
func (s *bookingService) consumeReservation(ctx context.Context, tx *gorm.DB, eventType *models.EventType, in CreateBookingInput) error {
	if in.ReservationUID == "" {
		return nil
	}
	reservation, err := s.reservationRepo.FindByUID(ctx, in.ReservationUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	if reservation.EventTypeID != eventType.ID || !reservation.SlotStart.Equal(in.Start) {
		return ErrReservationNotFound
	}
	if !reservation.ExpiresAt.After(in.Now) {
		return ErrReservationExpired
	}
	_, err = s.reservationRepo.DeleteByUID(ctx, tx, in.ReservationUID)
	return err
}

// pickHosts returns the hosts the booking occupies, conflict-checked across
// every occurrence under the event type lock. Collective books all assigned
// hosts; round robin books the least-loaded conflict-free host; single takes
// the only assignment.
func (s *bookingService) pickHosts(ctx context.Context, tx *gorm.DB, eventType *models.EventType, occurrences []time.Time, now time.Time) ([]string, error) {
	assignments := eventType.Hosts

	switch availability.Policy(eventType.SchedulingPolicy) {
	case availability.PolicyCollective:
		hostIDs := make([]string, len(assignments))
		for i, a := range assignments {
			hostIDs[i] = a.HostID
		}
		for _, hostID := range hostIDs {
			ok, err := s.hostFreeForAll(ctx, tx, eventType, hostID, occurrences, now)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrSlotNoLongerAvailable
			}
		}
		return hostIDs, nil

	case availability.PolicyRoundRobin:
		type loadedHost struct {
			hostID string
			load   int64
		}
		candidates := make([]loadedHost, 0, len(assignments))
		for _, a := range assignments {
			load, err := s.bookingRepo.CountAcceptedForHost(ctx, tx, a.HostID)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, loadedHost{hostID: a.HostID, load: load})
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].load < candidates[j].load })
		for _, c := range candidates {
			ok, err := s.hostFreeForAll(ctx, tx, eventType, c.hostID, occurrences, now)
			if err != nil {
				return nil, err
			}
			if ok {
				return []string{c.hostID}, nil
			}
		}
		return nil, ErrSlotNoLongerAvailable

	default:
		hostID := assignments[0].HostID
		ok, err := s.hostFreeForAll(ctx, tx, eventType, hostID, occurrences, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSlotNoLongerAvailable
		}
		return []string{hostID}, nil
	}
}

// hostFreeForAll re-checks conflicts for every occurrence under the lock:
// buffered overlap against accepted bookings, foreign active holds, and for
// seated events the remaining capacity at the exact start.
func (s *bookingService) hostFreeForAll(ctx context.Context, tx *gorm.DB, eventType *models.EventType, hostID string, occurrences []time.Time, now time.Time) (bool, error) {
	duration := time.Duration(eventType.DurationMinutes) * time.Minute
	bufferBefore := time.Duration(eventType.BufferBeforeMinutes) * time.Minute
	bufferAfter := time.Duration(eventType.BufferAfterMinutes) * time.Minute
	seated := eventType.SeatsPerSlot > 1

	reservations, err := s.reservationRepo.FindActiveForEventType(ctx, tx, eventType.ID, now)
	if err != nil {
		return false, err
	}

	for _, start := range occurrences {
		slot := availability.Interval{Start: start, End: start.Add(duration)}

		bookings, err := s.bookingRepo.FindAcceptedInRange(ctx, tx, []string{hostID},
			slot.Start.Add(-busyPadding), slot.End.Add(busyPadding))
		if err != nil {
			return false, err
		}
		for _, b := range bookings {
			if seated && b.EventTypeID == eventType.ID && b.StartTime.Equal(start) {
				continue
			}
			buffered := availability.Interval{
				Start: b.StartTime.Add(-bufferBefore),
				End:   b.EndTime.Add(bufferAfter),
			}
			if buffered.Overlaps(slot) {
				return false, nil
			}
		}

		holds := 0
		for _, r := range reservations {
			if r.SlotStart.Equal(start) {
				holds++
			}
		}
		if !seated && holds > 0 {
			return false, nil
		}
		if seated {
			confirmed, err := s.bookingRepo.CountAcceptedAtStart(ctx, tx, eventType.ID, start)
			if err != nil {
				return false, err
			}
			if int(confirmed)+holds >= eventType.SeatsPerSlot {
				return false, nil
			}
		}
	}
	return true, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, uid string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	if bookings[0].Status == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	err = s.bookingRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		// Lock the event type row so cancellation serializes with bookings
		// that may be racing to take the freed interval.
		if _, err := s.eventTypeRepo.FindByIDForUpdate(ctx, tx, bookings[0].EventTypeID); err != nil {
			return err
		}
		return s.bookingRepo.UpdateStatusByUID(ctx, tx, uid, models.StatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		bookings[i].Status = models.StatusCancelled
	}
	s.publish("booking.cancelled", bookings)
	if s.cache != nil {
		s.cache.InvalidateEventType(ctx, bookings[0].EventTypeID)
	}
	return bookings, nil
}

// RescheduleBooking frees the old interval and occupies the new one: the old
// records flip to rescheduled and a fresh accepted booking is created for the
// same hosts and attendee, linked through RescheduledToUID.
func (s *bookingService) RescheduleBooking(ctx context.Context, uid string, newStart, now time.Time) ([]models.Booking, error) {
	old, err := s.bookingRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(old) == 0 {
		return nil, ErrBookingNotFound
	}
	if old[0].Status != models.StatusAccepted {
		return nil, ErrBookingNotFound
	}

	var created []models.Booking
	err = s.bookingRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		eventType, err := s.eventTypeRepo.FindByIDForUpdate(ctx, tx, old[0].EventTypeID)
		if err != nil {
			return err
		}
		if !availability.Bookable(newStart, now,
			time.Duration(eventType.MinimumNoticeMin)*time.Minute,
			time.Duration(eventType.BookingWindowDays)*24*time.Hour) {
			return ErrOutsideBookingWindow
		}

		// The old interval is freed first so it cannot conflict with its own
		// replacement.
		newUID := uuid.NewString()
		if err := s.bookingRepo.UpdateStatusByUID(ctx, tx, uid, models.StatusRescheduled, &newUID); err != nil {
			return err
		}

		duration := time.Duration(eventType.DurationMinutes) * time.Minute
		for _, b := range old {
			ok, err := s.hostFreeForAll(ctx, tx, eventType, b.HostID, []time.Time{newStart}, now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrSlotNoLongerAvailable
			}
			created = append(created, models.Booking{
				UID:               newUID,
				EventTypeID:       b.EventTypeID,
				HostID:            b.HostID,
				AttendeeName:      b.AttendeeName,
				AttendeeEmail:     b.AttendeeEmail,
				AttendeeTimeZone:  b.AttendeeTimeZone,
				StartTime:         newStart,
				EndTime:           newStart.Add(duration),
				Status:            models.StatusAccepted,
				RecurringSeriesID: b.RecurringSeriesID,
			})
		}
		return s.bookingRepo.Create(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.rescheduled", created)
	if s.cache != nil {
		s.cache.InvalidateEventType(ctx, old[0].EventTypeID)
	}
	return created, nil
}

func (s *bookingService) GetBooking(ctx context.Context, uid string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	return bookings, nil
}

func (s *bookingService) ListBookings(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.List(ctx, eventTypeID, status)
}

func (s *bookingService) publish(routingKey string, bookings []models.Booking) {
	if s.publisher == nil || len(bookings) == 0 {
		return
	}
	if err := s.publisher.Publish(routingKey, bookings); err != nil {
		log.Printf("[booking] publish %s failed: %v", routingKey, err)
	}
}
