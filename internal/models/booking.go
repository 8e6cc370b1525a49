package models

import "time"

type BookingStatus string

const (
	StatusAccepted    BookingStatus = "accepted"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

// Booking is a confirmed occupied time range for one host. Collective events
// create one row per assigned host sharing a UID; recurring events link
// sibling occurrences through RecurringSeriesID.
type Booking struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	UID               string        `gorm:"index;not null" json:"uid"`
	EventTypeID       uint          `gorm:"not null;index" json:"event_type_id"`
	HostID            string        `gorm:"not null;index" json:"host_id"`
	AttendeeName      string        `gorm:"not null" json:"attendee_name"`
	AttendeeEmail     string        `gorm:"not null" json:"attendee_email"`
	AttendeeTimeZone  string        `json:"attendee_time_zone,omitempty"`
	StartTime         time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime           time.Time     `gorm:"not null" json:"end_time"`
	Status            BookingStatus `gorm:"type:varchar(20);not null;default:'accepted'" json:"status"`
	RecurringSeriesID *string       `gorm:"index" json:"recurring_series_id,omitempty"`
	RescheduledToUID  *string       `json:"rescheduled_to_uid,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	EventType *EventType `gorm:"foreignKey:EventTypeID" json:"event_type,omitempty"`
}
