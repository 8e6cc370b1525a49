package models

import "time"

// EventType defines one bookable event: duration, buffers, notice and window
// policy, scheduling policy across hosts, seat capacity and an optional
// fixed-interval recurrence rule.
type EventType struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Slug                string `gorm:"uniqueIndex;not null" json:"slug"`
	Title               string `gorm:"not null" json:"title"`
	DurationMinutes     int    `gorm:"not null" json:"duration_minutes"`
	SlotIntervalMinutes int    `gorm:"not null" json:"slot_interval_minutes"`
	BufferBeforeMinutes int    `gorm:"not null;default:0" json:"buffer_before_minutes"`
	BufferAfterMinutes  int    `gorm:"not null;default:0" json:"buffer_after_minutes"`
	MinimumNoticeMin    int    `gorm:"not null;default:0" json:"minimum_notice_minutes"`
	BookingWindowDays   int    `gorm:"not null;default:0" json:"booking_window_days"` // 0 = unlimited
	SchedulingPolicy    string `gorm:"type:varchar(20);not null" json:"scheduling_policy"`
	SeatsPerSlot        int    `gorm:"not null;default:1" json:"seats_per_slot"`
	RecurrenceFrequency string `gorm:"type:varchar(10);not null;default:''" json:"recurrence_frequency,omitempty"`
	RecurrenceInterval  int    `gorm:"not null;default:1" json:"recurrence_interval,omitempty"`
	RecurrenceCount     int    `gorm:"not null;default:1" json:"recurrence_count,omitempty"`

	Hosts []HostAssignment `gorm:"foreignKey:EventTypeID;constraint:OnDelete:CASCADE" json:"hosts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HostAssignment associates a host (and the schedule the host serves this
// event from) with an event type.
type HostAssignment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventTypeID uint   `gorm:"not null;index" json:"event_type_id"`
	HostID      string `gorm:"not null;index" json:"host_id"`
	ScheduleID  uint   `gorm:"not null" json:"schedule_id"`
}
