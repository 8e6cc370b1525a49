package dto

import (
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/service"
)

// AvailabilityResponse maps calendar dates to offerable slot start instants,
// ISO-8601 in the requesting timezone. SeatsRemaining appears only for
// seated events, keyed by the slot's UTC instant.
type AvailabilityResponse struct {
	TimeZone       string              `json:"time_zone"`
	Slots          map[string][]string `json:"slots"`
	SeatsRemaining map[string]int      `json:"seats_remaining,omitempty"`
}

func ToAvailabilityResponse(slots *service.AvailableSlots) AvailabilityResponse {
	out := AvailabilityResponse{
		TimeZone:       slots.TimeZone,
		Slots:          make(map[string][]string, len(slots.Days)),
		SeatsRemaining: slots.SeatsRemaining,
	}
	for _, day := range slots.Days {
		formatted := make([]string, 0, len(slots.Slots[day]))
		for _, t := range slots.Slots[day] {
			formatted = append(formatted, t.Format(time.RFC3339))
		}
		out.Slots[day] = formatted
	}
	return out
}

type ReservationResponse struct {
	UID         string    `json:"uid"`
	EventTypeID uint      `json:"event_type_id"`
	SlotStart   time.Time `json:"slot_start"`
	SlotEnd     time.Time `json:"slot_end"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func ToReservationResponse(r *models.SlotReservation) ReservationResponse {
	return ReservationResponse{
		UID:         r.UID,
		EventTypeID: r.EventTypeID,
		SlotStart:   r.SlotStart,
		SlotEnd:     r.SlotEnd,
		ExpiresAt:   r.ExpiresAt,
	}
}

// BookingResponse is one occurrence; collective rows sharing a UID collapse
// into one response with every host listed.
type BookingResponse struct {
	UID               string               `json:"uid"`
	EventTypeID       uint                 `json:"event_type_id"`
	Hosts             []string             `json:"hosts"`
	AttendeeName      string               `json:"attendee_name"`
	AttendeeEmail     string               `json:"attendee_email"`
	Start             time.Time            `json:"start"`
	End               time.Time            `json:"end"`
	Status            models.BookingStatus `json:"status"`
	RecurringSeriesID *string              `json:"recurring_series_id,omitempty"`
	RescheduledToUID  *string              `json:"rescheduled_to_uid,omitempty"`
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	var out []BookingResponse
	index := make(map[string]int)
	for _, b := range bookings {
		if i, ok := index[b.UID]; ok {
			out[i].Hosts = append(out[i].Hosts, b.HostID)
			continue
		}
		index[b.UID] = len(out)
		out = append(out, BookingResponse{
			UID:               b.UID,
			EventTypeID:       b.EventTypeID,
			Hosts:             []string{b.HostID},
			AttendeeName:      b.AttendeeName,
			AttendeeEmail:     b.AttendeeEmail,
			Start:             b.StartTime,
			End:               b.EndTime,
			Status:            b.Status,
			RecurringSeriesID: b.RecurringSeriesID,
			RescheduledToUID:  b.RescheduledToUID,
		})
	}
	return out
}

const (
	BookingKindSingle    = "single"
	BookingKindRecurring = "recurring"
)

// CreateBookingResponse is an explicit tagged union: a single booking or the
// recurring series, never a shape-sniffed object-vs-array.
type CreateBookingResponse struct {
	Kind     string            `json:"kind"`
	Booking  *BookingResponse  `json:"booking,omitempty"`
	Bookings []BookingResponse `json:"bookings,omitempty"`
}

func ToCreateBookingResponse(result *service.BookingResult) CreateBookingResponse {
	grouped := ToBookingResponses(result.Bookings)
	if result.Recurring {
		return CreateBookingResponse{Kind: BookingKindRecurring, Bookings: grouped}
	}
	return CreateBookingResponse{Kind: BookingKindSingle, Booking: &grouped[0]}
}

type ErrorResponse struct {
	Message string `json:"message"`
}
