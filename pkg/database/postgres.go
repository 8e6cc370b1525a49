package database

import (
	"log"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Schedule{},
		&models.WeeklyRule{},
		&models.DateOverride{},
		&models.EventType{},
		&models.HostAssignment{},
		&models.Booking{},
		&models.SlotReservation{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: an attendee cannot hold two accepted bookings for
	// the same host and start. Capacity enforcement itself runs under the
	// event type row lock.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_attendee_active
		ON bookings (event_type_id, host_id, start_time, attendee_email)
		WHERE status = 'accepted'
	`)

	return db
}
