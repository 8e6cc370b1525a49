package repository

import (
	"context"
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.SlotReservation) error
	FindByUID(ctx context.Context, uid string) (*models.SlotReservation, error)
	FindActiveForEventType(ctx context.Context, tx *gorm.DB, eventTypeID uint, now time.Time) ([]models.SlotReservation, error)
	DeleteByUID(ctx context.Context, tx *gorm.DB, uid string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) error
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.SlotReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByUID(ctx context.Context, uid string) (*models.SlotReservation, error) {
	var reservation models.SlotReservation
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindActiveForEventType returns unexpired holds for an event type. Expiry is
// a read-time comparison against the caller's now, never an ambient clock.
func (r *reservationRepository) FindActiveForEventType(ctx context.Context, tx *gorm.DB, eventTypeID uint, now time.Time) ([]models.SlotReservation, error) {
	if tx == nil {
		tx = r.db
	}
	var reservations []models.SlotReservation
	err := tx.WithContext(ctx).
		Where("event_type_id = ? AND expires_at > ?", eventTypeID, now).
		Order("slot_start ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) DeleteByUID(ctx context.Context, tx *gorm.DB, uid string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Where("uid = ?", uid).Delete(&models.SlotReservation{})
	return result.RowsAffected, result.Error
}

// DeleteExpired is storage hygiene only; correctness never depends on it.
func (r *reservationRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.SlotReservation{}).Error
}
