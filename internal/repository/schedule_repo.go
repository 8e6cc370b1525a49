package repository

import (
	"context"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	FindByID(ctx context.Context, id uint) (*models.Schedule, error)
	FindDefaultByHost(ctx context.Context, hostID string) (*models.Schedule, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Schedule, error)
	ReplaceRules(ctx context.Context, tx *gorm.DB, scheduleID uint, rules []models.WeeklyRule, overrides []models.DateOverride) error
	Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	ClearDefaultForHost(ctx context.Context, tx *gorm.DB, hostID string) error
	Delete(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *scheduleRepository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *scheduleRepository) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	return tx.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Preload("Overrides").
		First(&schedule, id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindDefaultByHost(ctx context.Context, hostID string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Preload("Overrides").
		Where("host_id = ? AND is_default = ?", hostID, true).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListByHost(ctx context.Context, hostID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Preload("Overrides").
		Where("host_id = ?", hostID).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// ReplaceRules swaps out all weekly rules and overrides of a schedule in one
// go; edits are full replacements, never partial patches.
func (r *scheduleRepository) ReplaceRules(ctx context.Context, tx *gorm.DB, scheduleID uint, rules []models.WeeklyRule, overrides []models.DateOverride) error {
	if err := tx.WithContext(ctx).Where("schedule_id = ?", scheduleID).Delete(&models.WeeklyRule{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("schedule_id = ?", scheduleID).Delete(&models.DateOverride{}).Error; err != nil {
		return err
	}
	for i := range rules {
		rules[i].ID = 0
		rules[i].ScheduleID = scheduleID
	}
	for i := range overrides {
		overrides[i].ID = 0
		overrides[i].ScheduleID = scheduleID
	}
	if len(rules) > 0 {
		if err := tx.WithContext(ctx).Create(&rules).Error; err != nil {
			return err
		}
	}
	if len(overrides) > 0 {
		if err := tx.WithContext(ctx).Create(&overrides).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *scheduleRepository) Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	return tx.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", schedule.ID).
		Updates(map[string]any{
			"name":       schedule.Name,
			"time_zone":  schedule.TimeZone,
			"is_default": schedule.IsDefault,
		}).Error
}

func (r *scheduleRepository) ClearDefaultForHost(ctx context.Context, tx *gorm.DB, hostID string) error {
	return tx.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("host_id = ?", hostID).
		Update("is_default", false).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Schedule{}, id).Error
}
