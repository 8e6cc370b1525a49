package dto

import "time"

type ReserveSlotRequest struct {
	EventTypeID uint      `json:"event_type_id"`
	SlotStart   time.Time `json:"slot_start"`
}

type AttendeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"time_zone,omitempty"`
}

type CreateBookingRequest struct {
	EventTypeID    uint            `json:"event_type_id"`
	Start          time.Time       `json:"start"`
	Attendee       AttendeeRequest `json:"attendee"`
	ReservationUID string          `json:"reservation_uid,omitempty"`
}

type RescheduleBookingRequest struct {
	Start time.Time `json:"start"`
}

type WeeklyRuleRequest struct {
	Weekday      int `json:"weekday"`
	StartMinutes int `json:"start_minutes"`
	EndMinutes   int `json:"end_minutes"`
}

type DateOverrideRequest struct {
	Date         string `json:"date"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	Unavailable  bool   `json:"unavailable"`
}

type ScheduleRequest struct {
	HostID    string                `json:"host_id"`
	Name      string                `json:"name"`
	TimeZone  string                `json:"time_zone"`
	IsDefault bool                  `json:"is_default"`
	Rules     []WeeklyRuleRequest   `json:"rules"`
	Overrides []DateOverrideRequest `json:"overrides,omitempty"`
}

type HostAssignmentRequest struct {
	HostID     string `json:"host_id"`
	ScheduleID uint   `json:"schedule_id,omitempty"` // 0 = host default schedule
}

type EventTypeRequest struct {
	Slug                string                  `json:"slug"`
	Title               string                  `json:"title"`
	DurationMinutes     int                     `json:"duration_minutes"`
	SlotIntervalMinutes int                     `json:"slot_interval_minutes,omitempty"`
	BufferBeforeMinutes int                     `json:"buffer_before_minutes,omitempty"`
	BufferAfterMinutes  int                     `json:"buffer_after_minutes,omitempty"`
	MinimumNoticeMin    int                     `json:"minimum_notice_minutes,omitempty"`
	BookingWindowDays   int                     `json:"booking_window_days,omitempty"`
	SchedulingPolicy    string                  `json:"scheduling_policy"`
	SeatsPerSlot        int                     `json:"seats_per_slot,omitempty"`
	RecurrenceFrequency string                  `json:"recurrence_frequency,omitempty"`
	RecurrenceInterval  int                     `json:"recurrence_interval,omitempty"`
	RecurrenceCount     int                     `json:"recurrence_count,omitempty"`
	Hosts               []HostAssignmentRequest `json:"hosts"`
}
