package availability

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// MinuteRange is a window expressed as minutes from local midnight,
// half-open [StartMinutes, EndMinutes).
type MinuteRange struct {
	StartMinutes int
	EndMinutes   int
}

// Validate checks the window sits inside a single day.
func (mr MinuteRange) Validate() error {
	if mr.StartMinutes < 0 || mr.EndMinutes > minutesPerDay || mr.StartMinutes >= mr.EndMinutes {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidWindow, mr.StartMinutes, mr.EndMinutes)
	}
	return nil
}

// WeeklyRule is one recurring weekly availability window. The weekday and the
// minute offsets are interpreted in the owning schedule's timezone.
type WeeklyRule struct {
	Weekday time.Weekday
	Window  MinuteRange
}

// DateOverride replaces the weekly rules for one calendar date (in the
// schedule's timezone). Empty Windows means fully unavailable that day.
type DateOverride struct {
	Date    string // YYYY-MM-DD
	Windows []MinuteRange
}

// Schedule is a host's recurring weekly rules plus date overrides, all
// anchored to one timezone.
type Schedule struct {
	TimeZone  string
	Rules     []WeeklyRule
	Overrides []DateOverride
}

// Resolve turns the schedule into concrete free intervals covering
// [rangeStart, rangeEnd). Day-of-week matching and minute offsets are
// evaluated in the schedule's own timezone; the resolver walks one extra day
// past each range edge so a day-boundary shift between the schedule timezone
// and the query range cannot drop a window. The result is merged, sorted and
// clipped to the range.
//
// An empty schedule resolves to no free intervals; that is not an error.
func (s Schedule) Resolve(rangeStart, rangeEnd time.Time) ([]Interval, error) {
	if !rangeEnd.After(rangeStart) {
		return nil, fmt.Errorf("%w: resolve range", ErrInvalidInterval)
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, s.TimeZone)
	}

	for _, rule := range s.Rules {
		if err := rule.Window.Validate(); err != nil {
			return nil, err
		}
	}
	overrides := make(map[string]DateOverride, len(s.Overrides))
	for _, ov := range s.Overrides {
		for _, w := range ov.Windows {
			if err := w.Validate(); err != nil {
				return nil, err
			}
		}
		overrides[ov.Date] = ov
	}

	rulesByDay := make(map[time.Weekday][]MinuteRange)
	for _, rule := range s.Rules {
		rulesByDay[rule.Weekday] = append(rulesByDay[rule.Weekday], rule.Window)
	}

	first := rangeStart.In(loc)
	last := rangeEnd.In(loc)
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	stop := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	var free []Interval
	for !day.After(stop) {
		windows := rulesByDay[day.Weekday()]
		if ov, ok := overrides[day.Format("2006-01-02")]; ok {
			windows = ov.Windows
		}
		for _, w := range windows {
			free = append(free, Interval{
				Start: atMinutes(day, w.StartMinutes, loc),
				End:   atMinutes(day, w.EndMinutes, loc),
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return Clip(Merge(free), Interval{Start: rangeStart, End: rangeEnd}), nil
}

// atMinutes builds the instant for a wall-clock minute offset on the given
// day. time.Date normalization keeps the wall clock stable across DST shifts.
func atMinutes(day time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, loc)
}
