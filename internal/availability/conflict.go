package availability

import "time"

// SubtractBusy removes booked intervals from the free set, first expanding
// every busy interval by the event's buffers. Buffers protect the host from
// back-to-back load, so a free slot may not start inside
// [busy.Start-bufferBefore, busy.End+bufferAfter).
//
// Malformed interval data is surfaced as ErrInvalidInterval, never dropped.
// The operation is idempotent: applying it to its own output is a no-op.
func SubtractBusy(free, busy []Interval, bufferBefore, bufferAfter time.Duration) ([]Interval, error) {
	for _, iv := range free {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
	}
	expanded := make([]Interval, 0, len(busy))
	for _, iv := range busy {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
		expanded = append(expanded, Interval{
			Start: iv.Start.Add(-bufferBefore),
			End:   iv.End.Add(bufferAfter),
		})
	}
	return Subtract(free, expanded), nil
}

// FilterBookable applies minimum-notice and booking-window policy to
// candidate slot starts. Instants closer than minNotice to now, or further
// out than maxAdvance, are conflicts against booking eligibility. A zero
// maxAdvance means no advance limit.
func FilterBookable(starts []time.Time, now time.Time, minNotice, maxAdvance time.Duration) []time.Time {
	earliest := now.Add(minNotice)
	latest := now.Add(maxAdvance)

	var out []time.Time
	for _, t := range starts {
		if t.Before(earliest) {
			continue
		}
		if maxAdvance > 0 && t.After(latest) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Bookable reports whether a single start instant passes the
// minimum-notice/booking-window policy.
func Bookable(start, now time.Time, minNotice, maxAdvance time.Duration) bool {
	return len(FilterBookable([]time.Time{start}, now, minNotice, maxAdvance)) == 1
}
