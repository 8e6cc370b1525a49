package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meetsync/scheduling-service/internal/availability"
	"github.com/meetsync/scheduling-service/internal/models"
	"github.com/meetsync/scheduling-service/internal/repository"
	"gorm.io/gorm"
)

// busyPadding widens the booking query range so bookings that overlap the
// range edges (or reach in via buffers) are not missed.
const busyPadding = 24 * time.Hour

// AvailabilityQuery is one availability request. Now is always supplied by
// the caller; the computation never reads an ambient clock.
type AvailabilityQuery struct {
	EventTypeID   uint
	EventTypeSlug string
	StartDate     string // YYYY-MM-DD, inclusive, in TimeZone
	EndDate       string // YYYY-MM-DD, inclusive, in TimeZone
	TimeZone      string
	Usernames     []string // dynamic multi-person links; overrides stored hosts
	Now           time.Time
}

// AvailableSlots is the computed result: offerable start instants bucketed by
// calendar day in the requesting timezone. SeatsRemaining is populated only
// for seated events (capacity > 1), keyed by RFC3339 start.
type AvailableSlots struct {
	TimeZone       string                 `json:"time_zone"`
	Days           []string               `json:"days"`
	Slots          map[string][]time.Time `json:"slots"`
	SeatsRemaining map[string]int         `json:"seats_remaining,omitempty"`
}

type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, q AvailabilityQuery) (*AvailableSlots, error)
}

type availabilityService struct {
	eventTypeRepo   repository.EventTypeRepository
	scheduleRepo    repository.ScheduleRepository
	bookingRepo     repository.BookingRepository
	reservationRepo repository.ReservationRepository
	cache           SlotCache
}

func NewAvailabilityService(
	eventTypeRepo repository.EventTypeRepository,
	scheduleRepo repository.ScheduleRepository,
	bookingRepo repository.BookingRepository,
	reservationRepo repository.ReservationRepository,
	cache SlotCache,
) AvailabilityService {
	return &availabilityService{
		eventTypeRepo:   eventTypeRepo,
		scheduleRepo:    scheduleRepo,
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		cache:           cache,
	}
}

// hostContext pairs a host with the schedule serving this event.
type hostContext struct {
	hostID   string
	schedule availability.Schedule
}

func (s *availabilityService) GetAvailableSlots(ctx context.Context, q AvailabilityQuery) (*AvailableSlots, error) {
	eventType, err := s.findEventType(ctx, q)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(q.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", availability.ErrUnknownTimeZone, q.TimeZone)
	}
	rangeStart, rangeEnd, err := parseDateRange(q.StartDate, q.EndDate, loc)
	if err != nil {
		return nil, err
	}

	cacheKey := slotsCacheKey(eventType.ID, q)
	if s.cache != nil {
		var cached AvailableSlots
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	hosts, err := s.resolveHosts(ctx, eventType, q.Usernames)
	if err != nil {
		return nil, err
	}

	hostIDs := make([]string, len(hosts))
	for i, h := range hosts {
		hostIDs[i] = h.hostID
	}
	bookings, err := s.bookingRepo.FindAcceptedInRange(ctx, nil, hostIDs,
		rangeStart.Add(-busyPadding), rangeEnd.Add(busyPadding))
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservationRepo.FindActiveForEventType(ctx, nil, eventType.ID, q.Now)
	if err != nil {
		return nil, err
	}

	seated := eventType.SeatsPerSlot > 1
	bufferBefore := time.Duration(eventType.BufferBeforeMinutes) * time.Minute
	bufferAfter := time.Duration(eventType.BufferAfterMinutes) * time.Minute

	perHost := make([][]availability.Interval, 0, len(hosts))
	for _, host := range hosts {
		free, err := host.schedule.Resolve(rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		busy := busyIntervals(bookings, reservations, host.hostID, eventType.ID, seated)
		free, err = availability.SubtractBusy(free, busy, bufferBefore, bufferAfter)
		if err != nil {
			return nil, err
		}
		perHost = append(perHost, free)
	}

	combined := availability.Combine(perHost, availability.Policy(eventType.SchedulingPolicy))
	starts := availability.GenerateSlots(combined,
		time.Duration(eventType.DurationMinutes)*time.Minute,
		time.Duration(eventType.SlotIntervalMinutes)*time.Minute)
	starts = availability.FilterBookable(starts, q.Now,
		time.Duration(eventType.MinimumNoticeMin)*time.Minute,
		time.Duration(eventType.BookingWindowDays)*24*time.Hour)

	var seatsRemaining map[string]int
	if seated {
		starts, seatsRemaining = applySeatOccupancy(starts, eventType, bookings, reservations, q.Now)
	}

	days, byDay := availability.GroupByDay(starts, loc)
	result := &AvailableSlots{
		TimeZone:       q.TimeZone,
		Days:           days,
		Slots:          byDay,
		SeatsRemaining: seatsRemaining,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, result)
	}
	return result, nil
}

func (s *availabilityService) findEventType(ctx context.Context, q AvailabilityQuery) (*models.EventType, error) {
	var (
		eventType *models.EventType
		err       error
	)
	switch {
	case q.EventTypeID != 0:
		eventType, err = s.eventTypeRepo.FindByID(ctx, q.EventTypeID)
	case q.EventTypeSlug != "":
		eventType, err = s.eventTypeRepo.FindBySlug(ctx, q.EventTypeSlug)
	default:
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return eventType, nil
}

// resolveHosts loads the schedule behind every participating host. Explicit
// usernames (dynamic booking links) use each host's default schedule instead
// of the stored assignment.
func (s *availabilityService) resolveHosts(ctx context.Context, eventType *models.EventType, usernames []string) ([]hostContext, error) {
	if len(usernames) > 0 {
		hosts := make([]hostContext, 0, len(usernames))
		for _, username := range usernames {
			schedule, err := s.scheduleRepo.FindDefaultByHost(ctx, username)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("%w: host %q", ErrScheduleNotFound, username)
				}
				return nil, err
			}
			hosts = append(hosts, hostContext{hostID: username, schedule: toCoreSchedule(schedule)})
		}
		return hosts, nil
	}

	if len(eventType.Hosts) == 0 {
		return nil, ErrNoHostsAssigned
	}
	hosts := make([]hostContext, 0, len(eventType.Hosts))
	for _, assignment := range eventType.Hosts {
		schedule, err := s.scheduleRepo.FindByID(ctx, assignment.ScheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: schedule %d", ErrScheduleNotFound, assignment.ScheduleID)
			}
			return nil, err
		}
		hosts = append(hosts, hostContext{hostID: assignment.HostID, schedule: toCoreSchedule(schedule)})
	}
	return hosts, nil
}

// busyIntervals collects the occupied ranges one host brings into the
// computation: every accepted booking on the host's calendar regardless of
// event type, plus active holds on the queried event. Seated events count
// their own bookings by seat occupancy instead of subtracting them.
func busyIntervals(bookings []models.Booking, reservations []models.SlotReservation, hostID string, eventTypeID uint, seated bool) []availability.Interval {
	var busy []availability.Interval
	for _, b := range bookings {
		if b.HostID != hostID {
			continue
		}
		if seated && b.EventTypeID == eventTypeID {
			continue
		}
		busy = append(busy, availability.Interval{Start: b.StartTime, End: b.EndTime})
	}
	if !seated {
		for _, r := range reservations {
			busy = append(busy, availability.Interval{Start: r.SlotStart, End: r.SlotEnd})
		}
	}
	return busy
}

// applySeatOccupancy drops starts whose confirmed bookings plus active holds
// reach capacity and reports remaining seats for partially occupied starts.
func applySeatOccupancy(starts []time.Time, eventType *models.EventType, bookings []models.Booking, reservations []models.SlotReservation, now time.Time) ([]time.Time, map[string]int) {
	occupied := make(map[int64]int)
	for _, b := range bookings {
		if b.EventTypeID == eventType.ID && b.Status == models.StatusAccepted {
			occupied[b.StartTime.UnixNano()]++
		}
	}
	for _, r := range reservations {
		if r.ExpiresAt.After(now) {
			occupied[r.SlotStart.UnixNano()]++
		}
	}

	remaining := make(map[string]int)
	var open []time.Time
	for _, t := range starts {
		taken := occupied[t.UnixNano()]
		if taken >= eventType.SeatsPerSlot {
			continue
		}
		open = append(open, t)
		remaining[t.UTC().Format(time.RFC3339)] = eventType.SeatsPerSlot - taken
	}
	return open, remaining
}

func toCoreSchedule(schedule *models.Schedule) availability.Schedule {
	core := availability.Schedule{TimeZone: schedule.TimeZone}
	for _, rule := range schedule.Rules {
		core.Rules = append(core.Rules, availability.WeeklyRule{
			Weekday: time.Weekday(rule.Weekday),
			Window: availability.MinuteRange{
				StartMinutes: rule.StartMinutes,
				EndMinutes:   rule.EndMinutes,
			},
		})
	}
	byDate := make(map[string][]availability.MinuteRange)
	var dates []string
	for _, override := range schedule.Overrides {
		if _, ok := byDate[override.Date]; !ok {
			dates = append(dates, override.Date)
			byDate[override.Date] = []availability.MinuteRange{}
		}
		if override.Unavailable {
			continue
		}
		byDate[override.Date] = append(byDate[override.Date], availability.MinuteRange{
			StartMinutes: override.StartMinutes,
			EndMinutes:   override.EndMinutes,
		})
	}
	sort.Strings(dates)
	for _, date := range dates {
		core.Overrides = append(core.Overrides, availability.DateOverride{
			Date:    date,
			Windows: byDate[date],
		})
	}
	return core
}

func parseDateRange(startDate, endDate string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, startDate)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", ErrInvalidDateRange)
	}
	return start, end.AddDate(0, 0, 1), nil
}

func slotsCacheKey(eventTypeID uint, q AvailabilityQuery) string {
	return fmt.Sprintf("slots:%d:%s:%s:%s:%s",
		eventTypeID, q.StartDate, q.EndDate, q.TimeZone, strings.Join(q.Usernames, ","))
}
