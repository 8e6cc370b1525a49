package repository

import (
	"context"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type EventTypeRepository interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, eventType *models.EventType) error
	Update(ctx context.Context, tx *gorm.DB, eventType *models.EventType) error
	FindByID(ctx context.Context, id uint) (*models.EventType, error)
	FindBySlug(ctx context.Context, slug string) (*models.EventType, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.EventType, error)
	List(ctx context.Context) ([]models.EventType, error)
	ReplaceHosts(ctx context.Context, tx *gorm.DB, eventTypeID uint, hosts []models.HostAssignment) error
	Delete(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type eventTypeRepository struct {
	db *gorm.DB
}

func NewEventTypeRepository(db *gorm.DB) EventTypeRepository {
	return &eventTypeRepository{db: db}
}

func (r *eventTypeRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *eventTypeRepository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *eventTypeRepository) Create(ctx context.Context, eventType *models.EventType) error {
	return r.db.WithContext(ctx).Create(eventType).Error
}

func (r *eventTypeRepository) Update(ctx context.Context, tx *gorm.DB, eventType *models.EventType) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(eventType).Error
}

func (r *eventTypeRepository) FindByID(ctx context.Context, id uint) (*models.EventType, error) {
	var eventType models.EventType
	if err := r.db.WithContext(ctx).Preload("Hosts").First(&eventType, id).Error; err != nil {
		return nil, err
	}
	return &eventType, nil
}

func (r *eventTypeRepository) FindBySlug(ctx context.Context, slug string) (*models.EventType, error) {
	var eventType models.EventType
	err := r.db.WithContext(ctx).Preload("Hosts").Where("slug = ?", slug).First(&eventType).Error
	if err != nil {
		return nil, err
	}
	return &eventType, nil
}

// FindByIDForUpdate acquires a row-level lock on the event type within the
// given transaction. This lock serializes concurrent booking attempts.
func (r *eventTypeRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.EventType, error) {
	var eventType models.EventType
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&eventType, id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("event_type_id = ?", id).Find(&eventType.Hosts).Error; err != nil {
		return nil, err
	}
	return &eventType, nil
}

func (r *eventTypeRepository) List(ctx context.Context) ([]models.EventType, error) {
	var eventTypes []models.EventType
	if err := r.db.WithContext(ctx).Preload("Hosts").Order("id ASC").Find(&eventTypes).Error; err != nil {
		return nil, err
	}
	return eventTypes, nil
}

func (r *eventTypeRepository) ReplaceHosts(ctx context.Context, tx *gorm.DB, eventTypeID uint, hosts []models.HostAssignment) error {
	if err := tx.WithContext(ctx).Where("event_type_id = ?", eventTypeID).Delete(&models.HostAssignment{}).Error; err != nil {
		return err
	}
	for i := range hosts {
		hosts[i].ID = 0
		hosts[i].EventTypeID = eventTypeID
	}
	if len(hosts) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&hosts).Error
}

func (r *eventTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.EventType{}, id).Error
}
