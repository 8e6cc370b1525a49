package models

import "time"

// Schedule is a host's named set of weekly availability rules plus
// date-specific overrides, anchored to one timezone. A host may own several
// schedules but exactly one marked default.
type Schedule struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	HostID    string         `gorm:"not null;index" json:"host_id"`
	Name      string         `gorm:"not null" json:"name"`
	TimeZone  string         `gorm:"not null" json:"time_zone"`
	IsDefault bool           `gorm:"not null;default:false" json:"is_default"`
	Rules     []WeeklyRule   `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"rules,omitempty"`
	Overrides []DateOverride `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"overrides,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WeeklyRule is one recurring weekly window, minutes from midnight in the
// schedule's timezone. Split shifts are multiple rows for the same weekday.
type WeeklyRule struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ScheduleID   uint `gorm:"not null;index" json:"schedule_id"`
	Weekday      int  `gorm:"not null" json:"weekday"` // time.Weekday: 0 = Sunday
	StartMinutes int  `gorm:"not null" json:"start_minutes"`
	EndMinutes   int  `gorm:"not null" json:"end_minutes"`
}

// DateOverride supersedes the weekly rules for one calendar date. One row per
// free window; a single row with Unavailable set blocks the whole day.
type DateOverride struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ScheduleID   uint   `gorm:"not null;index" json:"schedule_id"`
	Date         string `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	Unavailable  bool   `gorm:"not null;default:false" json:"unavailable"`
}
