package service

import (
	"context"
	"testing"
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookingNow   = time.Date(2050, 9, 1, 0, 0, 0, 0, time.UTC)
	bookingStart = time.Date(2050, 9, 5, 10, 0, 0, 0, time.UTC)
)

func createInput() CreateBookingInput {
	return CreateBookingInput{
		EventTypeID:      1,
		Start:            bookingStart,
		AttendeeName:     "Dana Attendee",
		AttendeeEmail:    "dana@example.com",
		AttendeeTimeZone: "Europe/Rome",
		Now:              bookingNow,
	}
}

func newBookingFixture() (*bookingService, *mockBookingRepo, *mockEventTypeRepo, *mockReservationRepo, *mockPublisher, *mockCache) {
	bookings := &mockBookingRepo{}
	eventTypes := &mockEventTypeRepo{
		findByIDFn: func(id uint) (*models.EventType, error) { return introEvent(), nil },
	}
	reservations := &mockReservationRepo{}
	publisher := &mockPublisher{}
	cache := &mockCache{}
	svc := NewBookingService(bookings, eventTypes, reservations, publisher, cache).(*bookingService)
	return svc, bookings, eventTypes, reservations, publisher, cache
}

func TestCreateBookingSingleHost(t *testing.T) {
	svc, bookings, _, _, publisher, cache := newBookingFixture()

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	assert.False(t, result.Recurring)
	require.Len(t, result.Bookings, 1)

	b := result.Bookings[0]
	assert.NotEmpty(t, b.UID)
	assert.Equal(t, "alice", b.HostID)
	assert.Equal(t, bookingStart, b.StartTime)
	assert.Equal(t, bookingStart.Add(time.Hour), b.EndTime)
	assert.Equal(t, models.StatusAccepted, b.Status)
	assert.Nil(t, b.RecurringSeriesID)

	require.Len(t, bookings.created, 1)
	assert.Equal(t, []string{"booking.created"}, publisher.published)
	assert.Equal(t, []uint{1}, cache.invalidated)
}

func TestCreateBookingConflictLosesRace(t *testing.T) {
	svc, bookings, _, _, publisher, _ := newBookingFixture()
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		return []models.Booking{{
			UID: "winner", EventTypeID: 1, HostID: "alice", Status: models.StatusAccepted,
			StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
		}}, nil
	}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, bookings.created)
	assert.Empty(t, publisher.published)
}

func TestCreateBookingBufferConflict(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.BufferAfterMinutes = 15
		return et, nil
	}
	// Existing booking ends exactly at the requested start; its after-buffer
	// still reaches into the new slot.
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		return []models.Booking{{
			UID: "earlier", EventTypeID: 2, HostID: "alice", Status: models.StatusAccepted,
			StartTime: bookingStart.Add(-time.Hour), EndTime: bookingStart,
		}}, nil
	}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
}

func TestCreateBookingForeignHoldBlocks(t *testing.T) {
	svc, _, _, reservations, _, _ := newBookingFixture()
	reservations.active = []models.SlotReservation{{
		UID: "someone-else", EventTypeID: 1,
		SlotStart: bookingStart, SlotEnd: bookingStart.Add(time.Hour),
		ExpiresAt: bookingNow.Add(5 * time.Minute),
	}}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
}

func TestCreateBookingConsumesReservation(t *testing.T) {
	svc, _, _, reservations, _, _ := newBookingFixture()
	hold := &models.SlotReservation{
		UID: "hold-1", EventTypeID: 1,
		SlotStart: bookingStart, SlotEnd: bookingStart.Add(time.Hour),
		ExpiresAt: bookingNow.Add(5 * time.Minute),
	}
	reservations.findByUIDFn = func(uid string) (*models.SlotReservation, error) { return hold, nil }
	// The caller's own hold must not block the booking.
	reservations.active = []models.SlotReservation{*hold}

	in := createInput()
	in.ReservationUID = "hold-1"
	result, err := svc.CreateBooking(context.Background(), in)

	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, []string{"hold-1"}, reservations.deletedUIDs)
}

func TestCreateBookingExpiredReservation(t *testing.T) {
	svc, bookings, _, reservations, _, _ := newBookingFixture()
	reservations.findByUIDFn = func(uid string) (*models.SlotReservation, error) {
		return &models.SlotReservation{
			UID: "hold-1", EventTypeID: 1,
			SlotStart: bookingStart, SlotEnd: bookingStart.Add(time.Hour),
			ExpiresAt: bookingNow.Add(-time.Minute),
		}, nil
	}

	in := createInput()
	in.ReservationUID = "hold-1"
	_, err := svc.CreateBooking(context.Background(), in)

	assert.ErrorIs(t, err, ErrReservationExpired)
	assert.Empty(t, bookings.created)
}

func TestCreateBookingReservationMismatch(t *testing.T) {
	svc, _, _, reservations, _, _ := newBookingFixture()
	reservations.findByUIDFn = func(uid string) (*models.SlotReservation, error) {
		return &models.SlotReservation{
			UID: "hold-1", EventTypeID: 1,
			SlotStart: bookingStart.Add(time.Hour), SlotEnd: bookingStart.Add(2 * time.Hour),
			ExpiresAt: bookingNow.Add(5 * time.Minute),
		}, nil
	}

	in := createInput()
	in.ReservationUID = "hold-1"
	_, err := svc.CreateBooking(context.Background(), in)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCreateBookingOutsideWindow(t *testing.T) {
	svc, _, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.BookingWindowDays = 1
		return et, nil
	}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrOutsideBookingWindow)
}

func TestCreateBookingUnknownEventType(t *testing.T) {
	svc, _, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = nil

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrEventTypeNotFound)
}

func TestCreateBookingRecurringSeries(t *testing.T) {
	svc, _, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.RecurrenceFrequency = "weekly"
		et.RecurrenceInterval = 1
		et.RecurrenceCount = 3
		return et, nil
	}

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	assert.True(t, result.Recurring)
	require.Len(t, result.Bookings, 3)

	series := result.Bookings[0].RecurringSeriesID
	require.NotNil(t, series)
	uids := map[string]struct{}{}
	for i, b := range result.Bookings {
		assert.Equal(t, bookingStart.AddDate(0, 0, 7*i), b.StartTime)
		require.NotNil(t, b.RecurringSeriesID)
		assert.Equal(t, *series, *b.RecurringSeriesID)
		uids[b.UID] = struct{}{}
	}
	assert.Len(t, uids, 3, "each occurrence carries its own uid")
}

func TestCreateBookingRecurringConflictFailsWholeSeries(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.RecurrenceFrequency = "weekly"
		et.RecurrenceCount = 3
		return et, nil
	}
	// Only the third occurrence collides.
	taken := bookingStart.AddDate(0, 0, 14)
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		if from.Before(taken) && to.After(taken) {
			return []models.Booking{{
				UID: "other", EventTypeID: 2, HostID: "alice", Status: models.StatusAccepted,
				StartTime: taken, EndTime: taken.Add(time.Hour),
			}}, nil
		}
		return nil, nil
	}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, bookings.created)
}

func TestCreateBookingCollectiveBooksAllHosts(t *testing.T) {
	svc, _, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SchedulingPolicy = "collective"
		et.Hosts = []models.HostAssignment{
			{EventTypeID: 1, HostID: "alice", ScheduleID: 1},
			{EventTypeID: 1, HostID: "bob", ScheduleID: 2},
		}
		return et, nil
	}

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	require.Len(t, result.Bookings, 2)
	assert.Equal(t, result.Bookings[0].UID, result.Bookings[1].UID)
	assert.Equal(t, "alice", result.Bookings[0].HostID)
	assert.Equal(t, "bob", result.Bookings[1].HostID)
}

func TestCreateBookingCollectiveOneHostBusyFails(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SchedulingPolicy = "collective"
		et.Hosts = []models.HostAssignment{
			{EventTypeID: 1, HostID: "alice", ScheduleID: 1},
			{EventTypeID: 1, HostID: "bob", ScheduleID: 2},
		}
		return et, nil
	}
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		if hostIDs[0] == "bob" {
			return []models.Booking{{
				UID: "busy", EventTypeID: 2, HostID: "bob", Status: models.StatusAccepted,
				StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
			}}, nil
		}
		return nil, nil
	}

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, bookings.created)
}

func TestCreateBookingRoundRobinPicksLeastLoaded(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SchedulingPolicy = "round_robin"
		et.Hosts = []models.HostAssignment{
			{EventTypeID: 1, HostID: "alice", ScheduleID: 1},
			{EventTypeID: 1, HostID: "bob", ScheduleID: 2},
		}
		return et, nil
	}
	bookings.countForHostFn = func(hostID string) (int64, error) {
		if hostID == "alice" {
			return 5, nil
		}
		return 2, nil
	}

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "bob", result.Bookings[0].HostID)
}

func TestCreateBookingRoundRobinFallsBackWhenBusy(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SchedulingPolicy = "round_robin"
		et.Hosts = []models.HostAssignment{
			{EventTypeID: 1, HostID: "alice", ScheduleID: 1},
			{EventTypeID: 1, HostID: "bob", ScheduleID: 2},
		}
		return et, nil
	}
	bookings.countForHostFn = func(hostID string) (int64, error) {
		if hostID == "bob" {
			return 0, nil
		}
		return 3, nil
	}
	// The least-loaded host is booked solid at this instant.
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		if hostIDs[0] == "bob" {
			return []models.Booking{{
				UID: "busy", EventTypeID: 2, HostID: "bob", Status: models.StatusAccepted,
				StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
			}}, nil
		}
		return nil, nil
	}

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "alice", result.Bookings[0].HostID)
}

func TestCreateBookingSeatedJoinsExistingSlot(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SeatsPerSlot = 2
		return et, nil
	}
	// One seat already taken at the same start on the same event.
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		return []models.Booking{{
			UID: "first", EventTypeID: 1, HostID: "alice", Status: models.StatusAccepted,
			StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
		}}, nil
	}
	bookings.countAtStartFn = func(eventTypeID uint, start time.Time) (int64, error) { return 1, nil }

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
}

func TestCreateBookingSeatedFullSlot(t *testing.T) {
	svc, bookings, eventTypes, _, _, _ := newBookingFixture()
	eventTypes.findByIDFn = func(id uint) (*models.EventType, error) {
		et := introEvent()
		et.SeatsPerSlot = 2
		return et, nil
	}
	bookings.countAtStartFn = func(eventTypeID uint, start time.Time) (int64, error) { return 2, nil }

	_, err := svc.CreateBooking(context.Background(), createInput())

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
}

func TestCancelBooking(t *testing.T) {
	svc, bookings, _, _, publisher, cache := newBookingFixture()
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{
			ID: 1, UID: uid, EventTypeID: 1, HostID: "alice", Status: models.StatusAccepted,
			StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
		}}, nil
	}

	cancelled, err := svc.CancelBooking(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, models.StatusCancelled, cancelled[0].Status)

	require.Len(t, bookings.statusUpdates, 1)
	assert.Equal(t, statusUpdate{uid: "abc", status: models.StatusCancelled}, bookings.statusUpdates[0])
	assert.Equal(t, []string{"booking.cancelled"}, publisher.published)
	assert.Equal(t, []uint{1}, cache.invalidated)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	svc, bookings, _, _, _, _ := newBookingFixture()
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{UID: uid, EventTypeID: 1, Status: models.StatusCancelled}}, nil
	}

	_, err := svc.CancelBooking(context.Background(), "abc")

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Empty(t, bookings.statusUpdates)
}

func TestCancelBookingNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newBookingFixture()

	_, err := svc.CancelBooking(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRescheduleBooking(t *testing.T) {
	svc, bookings, _, _, publisher, _ := newBookingFixture()
	series := "series-1"
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{
			ID: 1, UID: uid, EventTypeID: 1, HostID: "alice",
			AttendeeName: "Dana Attendee", AttendeeEmail: "dana@example.com",
			Status:    models.StatusAccepted,
			StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
			RecurringSeriesID: &series,
		}}, nil
	}

	newStart := bookingStart.Add(4 * time.Hour)
	created, err := svc.RescheduleBooking(context.Background(), "old-uid", newStart, bookingNow)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, newStart, created[0].StartTime)
	assert.Equal(t, newStart.Add(time.Hour), created[0].EndTime)
	assert.Equal(t, models.StatusAccepted, created[0].Status)
	assert.Equal(t, "alice", created[0].HostID)
	assert.Equal(t, "dana@example.com", created[0].AttendeeEmail)
	assert.NotEqual(t, "old-uid", created[0].UID)
	assert.Equal(t, &series, created[0].RecurringSeriesID)

	require.Len(t, bookings.statusUpdates, 1)
	update := bookings.statusUpdates[0]
	assert.Equal(t, "old-uid", update.uid)
	assert.Equal(t, models.StatusRescheduled, update.status)
	require.NotNil(t, update.rescheduledToUID)
	assert.Equal(t, created[0].UID, *update.rescheduledToUID)

	assert.Equal(t, []string{"booking.rescheduled"}, publisher.published)
}

func TestRescheduleBookingTargetTaken(t *testing.T) {
	svc, bookings, _, _, _, _ := newBookingFixture()
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{
			ID: 1, UID: uid, EventTypeID: 1, HostID: "alice", Status: models.StatusAccepted,
			StartTime: bookingStart, EndTime: bookingStart.Add(time.Hour),
		}}, nil
	}
	newStart := bookingStart.Add(4 * time.Hour)
	bookings.findAcceptedFn = func(hostIDs []string, from, to time.Time) ([]models.Booking, error) {
		return []models.Booking{{
			UID: "other", EventTypeID: 2, HostID: "alice", Status: models.StatusAccepted,
			StartTime: newStart, EndTime: newStart.Add(time.Hour),
		}}, nil
	}

	_, err := svc.RescheduleBooking(context.Background(), "old-uid", newStart, bookingNow)

	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Empty(t, bookings.created)
}

func TestRescheduleCancelledBooking(t *testing.T) {
	svc, bookings, _, _, _, _ := newBookingFixture()
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{UID: uid, EventTypeID: 1, Status: models.StatusCancelled}}, nil
	}

	_, err := svc.RescheduleBooking(context.Background(), "old-uid", bookingStart, bookingNow)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBooking(t *testing.T) {
	svc, bookings, _, _, _, _ := newBookingFixture()
	bookings.findByUIDFn = func(uid string) ([]models.Booking, error) {
		return []models.Booking{{UID: uid, EventTypeID: 1, Status: models.StatusAccepted}}, nil
	}

	found, err := svc.GetBooking(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	bookings.findByUIDFn = nil
	_, err = svc.GetBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	svc, _, _, _, publisher, _ := newBookingFixture()
	publisher.failWith = assert.AnError

	result, err := svc.CreateBooking(context.Background(), createInput())

	require.NoError(t, err)
	assert.Len(t, result.Bookings, 1)
}
