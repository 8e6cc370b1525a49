package models

import "time"

// SlotReservation is a short-lived hold on one slot, preventing a race
// between slot display and booking submission. Readers compare ExpiresAt
// against their own "now"; an expired reservation is treated as absent, so
// no sweep is required for correctness.
type SlotReservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UID         string    `gorm:"uniqueIndex;not null" json:"uid"`
	EventTypeID uint      `gorm:"not null;index" json:"event_type_id"`
	SlotStart   time.Time `gorm:"not null;index" json:"slot_start"`
	SlotEnd     time.Time `gorm:"not null" json:"slot_end"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}
