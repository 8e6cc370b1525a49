package handler

import (
	"context"
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/service"
)

type stubAvailabilityService struct {
	getSlotsFn func(q service.AvailabilityQuery) (*service.AvailableSlots, error)
}

func (s *stubAvailabilityService) GetAvailableSlots(ctx context.Context, q service.AvailabilityQuery) (*service.AvailableSlots, error) {
	return s.getSlotsFn(q)
}

type stubBookingService struct {
	createFn     func(in service.CreateBookingInput) (*service.BookingResult, error)
	cancelFn     func(uid string) ([]models.Booking, error)
	rescheduleFn func(uid string, newStart, now time.Time) ([]models.Booking, error)
	getFn        func(uid string) ([]models.Booking, error)
	listFn       func(eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error)
}

func (s *stubBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*service.BookingResult, error) {
	return s.createFn(in)
}

func (s *stubBookingService) CancelBooking(ctx context.Context, uid string) ([]models.Booking, error) {
	return s.cancelFn(uid)
}

func (s *stubBookingService) RescheduleBooking(ctx context.Context, uid string, newStart, now time.Time) ([]models.Booking, error) {
	return s.rescheduleFn(uid, newStart, now)
}

func (s *stubBookingService) GetBooking(ctx context.Context, uid string) ([]models.Booking, error) {
	return s.getFn(uid)
}

func (s *stubBookingService) ListBookings(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.listFn(eventTypeID, status)
}

type stubReservationService struct {
	reserveFn func(eventTypeID uint, slotStart, now time.Time) (*models.SlotReservation, error)
	releaseFn func(uid string) error
}

func (s *stubReservationService) Reserve(ctx context.Context, eventTypeID uint, slotStart time.Time, now time.Time) (*models.SlotReservation, error) {
	return s.reserveFn(eventTypeID, slotStart, now)
}

func (s *stubReservationService) Release(ctx context.Context, uid string) error {
	return s.releaseFn(uid)
}
