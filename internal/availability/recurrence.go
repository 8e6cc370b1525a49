package availability

import (
	"fmt"
	"time"
)

// Frequency is the fixed-interval recurrence unit for recurring event types.
type Frequency string

const (
	FrequencyNone    Frequency = ""
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether the frequency is a supported value.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// ExpandRecurrence returns the start instants of a recurring series: count
// occurrences spaced a fixed interval apart from the anchor. The anchor is
// always the first occurrence. Interval and count below 1 are treated as 1.
func ExpandRecurrence(anchor time.Time, freq Frequency, interval, count int) ([]time.Time, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, freq)
	}
	if interval < 1 {
		interval = 1
	}
	if count < 1 {
		count = 1
	}
	if freq == FrequencyNone {
		return []time.Time{anchor}, nil
	}

	starts := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		switch freq {
		case FrequencyDaily:
			starts = append(starts, anchor.AddDate(0, 0, i*interval))
		case FrequencyWeekly:
			starts = append(starts, anchor.AddDate(0, 0, 7*i*interval))
		case FrequencyMonthly:
			starts = append(starts, anchor.AddDate(0, i*interval, 0))
		}
	}
	return starts, nil
}
