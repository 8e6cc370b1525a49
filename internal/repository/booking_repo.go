package repository

import (
	"context"
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error
	FindByUID(ctx context.Context, uid string) ([]models.Booking, error)
	List(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error)
	FindAcceptedInRange(ctx context.Context, tx *gorm.DB, hostIDs []string, from, to time.Time) ([]models.Booking, error)
	CountAcceptedAtStart(ctx context.Context, tx *gorm.DB, eventTypeID uint, start time.Time) (int64, error)
	CountAcceptedForHost(ctx context.Context, tx *gorm.DB, hostID string) (int64, error)
	UpdateStatusByUID(ctx context.Context, tx *gorm.DB, uid string, status models.BookingStatus, rescheduledToUID *string) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&bookings).Error
}

func (r *bookingRepository) FindByUID(ctx context.Context, uid string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) List(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("event_type_id = ?", eventTypeID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("start_time ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindAcceptedInRange returns accepted bookings for the given hosts whose
// occupied range overlaps [from, to). Every accepted booking on a host's
// calendar counts, regardless of which event type created it.
func (r *bookingRepository) FindAcceptedInRange(ctx context.Context, tx *gorm.DB, hostIDs []string, from, to time.Time) ([]models.Booking, error) {
	if tx == nil {
		tx = r.db
	}
	var bookings []models.Booking
	err := tx.WithContext(ctx).
		Where("host_id IN ? AND status = ? AND start_time < ? AND end_time > ?",
			hostIDs, models.StatusAccepted, to, from).
		Order("start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CountAcceptedAtStart(ctx context.Context, tx *gorm.DB, eventTypeID uint, start time.Time) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("event_type_id = ? AND status = ? AND start_time = ?",
			eventTypeID, models.StatusAccepted, start).
		Count(&count).Error
	return count, err
}

// CountAcceptedForHost feeds the round-robin host pick at booking time.
func (r *bookingRepository) CountAcceptedForHost(ctx context.Context, tx *gorm.DB, hostID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("host_id = ? AND status = ?", hostID, models.StatusAccepted).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) UpdateStatusByUID(ctx context.Context, tx *gorm.DB, uid string, status models.BookingStatus, rescheduledToUID *string) error {
	if tx == nil {
		tx = r.db
	}
	updates := map[string]any{"status": status}
	if rescheduledToUID != nil {
		updates["rescheduled_to_uid"] = *rescheduledToUID
	}
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("uid = ?", uid).
		Updates(updates).Error
}
