package service

import (
	"context"
	"time"

	"github.com/meetsync/scheduling-service/internal/models"
	"gorm.io/gorm"
)

type mockEventTypeRepo struct {
	findByIDFn      func(id uint) (*models.EventType, error)
	findBySlugFn    func(slug string) (*models.EventType, error)
	findForUpdateFn func(id uint) (*models.EventType, error)

	createdEventTypes []*models.EventType
	updatedEventTypes []*models.EventType
	replacedHosts     [][]models.HostAssignment
}

func (m *mockEventTypeRepo) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *mockEventTypeRepo) Create(ctx context.Context, eventType *models.EventType) error {
	m.createdEventTypes = append(m.createdEventTypes, eventType)
	return nil
}

func (m *mockEventTypeRepo) Update(ctx context.Context, tx *gorm.DB, eventType *models.EventType) error {
	m.updatedEventTypes = append(m.updatedEventTypes, eventType)
	return nil
}

func (m *mockEventTypeRepo) FindByID(ctx context.Context, id uint) (*models.EventType, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(id)
}

func (m *mockEventTypeRepo) FindBySlug(ctx context.Context, slug string) (*models.EventType, error) {
	if m.findBySlugFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findBySlugFn(slug)
}

func (m *mockEventTypeRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.EventType, error) {
	if m.findForUpdateFn != nil {
		return m.findForUpdateFn(id)
	}
	return m.FindByID(ctx, id)
}

func (m *mockEventTypeRepo) List(ctx context.Context) ([]models.EventType, error) { return nil, nil }

func (m *mockEventTypeRepo) ReplaceHosts(ctx context.Context, tx *gorm.DB, eventTypeID uint, hosts []models.HostAssignment) error {
	m.replacedHosts = append(m.replacedHosts, hosts)
	return nil
}

func (m *mockEventTypeRepo) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockEventTypeRepo) GetDB() *gorm.DB { return nil }

type mockScheduleRepo struct {
	findByIDFn        func(id uint) (*models.Schedule, error)
	findDefaultFn     func(hostID string) (*models.Schedule, error)
	listByHostFn      func(hostID string) ([]models.Schedule, error)
	clearedDefaultFor []string
	createdSchedules  []*models.Schedule
	updatedSchedules  []*models.Schedule
	replaceRulesCalls int
}

func (m *mockScheduleRepo) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *mockScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	m.createdSchedules = append(m.createdSchedules, schedule)
	return nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id uint) (*models.Schedule, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(id)
}

func (m *mockScheduleRepo) FindDefaultByHost(ctx context.Context, hostID string) (*models.Schedule, error) {
	if m.findDefaultFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findDefaultFn(hostID)
}

func (m *mockScheduleRepo) ListByHost(ctx context.Context, hostID string) ([]models.Schedule, error) {
	if m.listByHostFn == nil {
		return nil, nil
	}
	return m.listByHostFn(hostID)
}

func (m *mockScheduleRepo) ReplaceRules(ctx context.Context, tx *gorm.DB, scheduleID uint, rules []models.WeeklyRule, overrides []models.DateOverride) error {
	m.replaceRulesCalls++
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	m.updatedSchedules = append(m.updatedSchedules, schedule)
	return nil
}

func (m *mockScheduleRepo) ClearDefaultForHost(ctx context.Context, tx *gorm.DB, hostID string) error {
	m.clearedDefaultFor = append(m.clearedDefaultFor, hostID)
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockScheduleRepo) GetDB() *gorm.DB { return nil }

type statusUpdate struct {
	uid              string
	status           models.BookingStatus
	rescheduledToUID *string
}

type mockBookingRepo struct {
	inTransactionFn func(ctx context.Context, fn func(tx *gorm.DB) error) error
	findByUIDFn     func(uid string) ([]models.Booking, error)
	listFn          func(eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error)
	findAcceptedFn  func(hostIDs []string, from, to time.Time) ([]models.Booking, error)
	countAtStartFn  func(eventTypeID uint, start time.Time) (int64, error)
	countForHostFn  func(hostID string) (int64, error)
	createFn        func(bookings []models.Booking) error

	created       []models.Booking
	statusUpdates []statusUpdate
}

func (m *mockBookingRepo) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.inTransactionFn != nil {
		return m.inTransactionFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error {
	if m.createFn != nil {
		if err := m.createFn(bookings); err != nil {
			return err
		}
	}
	m.created = append(m.created, bookings...)
	return nil
}

func (m *mockBookingRepo) FindByUID(ctx context.Context, uid string) ([]models.Booking, error) {
	if m.findByUIDFn == nil {
		return nil, nil
	}
	return m.findByUIDFn(uid)
}

func (m *mockBookingRepo) List(ctx context.Context, eventTypeID uint, status *models.BookingStatus) ([]models.Booking, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(eventTypeID, status)
}

func (m *mockBookingRepo) FindAcceptedInRange(ctx context.Context, tx *gorm.DB, hostIDs []string, from, to time.Time) ([]models.Booking, error) {
	if m.findAcceptedFn == nil {
		return nil, nil
	}
	return m.findAcceptedFn(hostIDs, from, to)
}

func (m *mockBookingRepo) CountAcceptedAtStart(ctx context.Context, tx *gorm.DB, eventTypeID uint, start time.Time) (int64, error) {
	if m.countAtStartFn == nil {
		return 0, nil
	}
	return m.countAtStartFn(eventTypeID, start)
}

func (m *mockBookingRepo) CountAcceptedForHost(ctx context.Context, tx *gorm.DB, hostID string) (int64, error) {
	if m.countForHostFn == nil {
		return 0, nil
	}
	return m.countForHostFn(hostID)
}

func (m *mockBookingRepo) UpdateStatusByUID(ctx context.Context, tx *gorm.DB, uid string, status models.BookingStatus, rescheduledToUID *string) error {
	m.statusUpdates = append(m.statusUpdates, statusUpdate{uid: uid, status: status, rescheduledToUID: rescheduledToUID})
	return nil
}

func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

type mockReservationRepo struct {
	findByUIDFn   func(uid string) (*models.SlotReservation, error)
	deleteByUIDFn func(uid string) (int64, error)
	active        []models.SlotReservation

	created     []*models.SlotReservation
	deletedUIDs []string
	sweeps      int
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *models.SlotReservation) error {
	m.created = append(m.created, reservation)
	return nil
}

func (m *mockReservationRepo) FindByUID(ctx context.Context, uid string) (*models.SlotReservation, error) {
	if m.findByUIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByUIDFn(uid)
}

func (m *mockReservationRepo) FindActiveForEventType(ctx context.Context, tx *gorm.DB, eventTypeID uint, now time.Time) ([]models.SlotReservation, error) {
	var out []models.SlotReservation
	for _, r := range m.active {
		if r.EventTypeID == eventTypeID && r.ExpiresAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) DeleteByUID(ctx context.Context, tx *gorm.DB, uid string) (int64, error) {
	m.deletedUIDs = append(m.deletedUIDs, uid)
	if m.deleteByUIDFn != nil {
		return m.deleteByUIDFn(uid)
	}
	remaining := m.active[:0]
	for _, r := range m.active {
		if r.UID != uid {
			remaining = append(remaining, r)
		}
	}
	m.active = remaining
	return 1, nil
}

func (m *mockReservationRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	m.sweeps++
	return nil
}

func (m *mockReservationRepo) GetDB() *gorm.DB { return nil }

type mockPublisher struct {
	published []string
	failWith  error
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, routingKey)
	return nil
}

type mockCache struct {
	getFn       func(key string, dest any) bool
	setKeys     []string
	invalidated []uint
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) bool {
	if m.getFn == nil {
		return false
	}
	return m.getFn(key, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value any) {
	m.setKeys = append(m.setKeys, key)
}

func (m *mockCache) InvalidateEventType(ctx context.Context, eventTypeID uint) {
	m.invalidated = append(m.invalidated, eventTypeID)
}

type mockAvailabilityService struct {
	getSlotsFn func(q AvailabilityQuery) (*AvailableSlots, error)
}

func (m *mockAvailabilityService) GetAvailableSlots(ctx context.Context, q AvailabilityQuery) (*AvailableSlots, error) {
	return m.getSlotsFn(q)
}
