package service

import "errors"

var (
	ErrEventTypeNotFound   = errors.New("event type not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrReservationNotFound = errors.New("slot reservation not found")

	// ErrSlotNoLongerAvailable is the expected outcome of a lost race: the
	// caller recovers by re-fetching availability with fresh data.
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	// ErrReservationExpired is returned when a booking is confirmed against a
	// hold whose TTL has elapsed. Same recovery path as a lost race.
	ErrReservationExpired = errors.New("slot reservation expired")

	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrNoHostsAssigned      = errors.New("event type has no hosts assigned")
	ErrOutsideBookingWindow = errors.New("start violates minimum notice or booking window")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrInvalidOverrideDate  = errors.New("override date must be YYYY-MM-DD")
)
