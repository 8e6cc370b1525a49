package availability

import "errors"

var (
	// ErrUnknownTimeZone signals a schedule or query referenced a timezone
	// identifier the tz database does not know. Configuration error, not retried.
	ErrUnknownTimeZone = errors.New("unknown timezone identifier")

	// ErrInvalidInterval signals interval data with end at or before start.
	// Data integrity error; surfaced, never silently dropped.
	ErrInvalidInterval = errors.New("interval end must be after start")

	// ErrInvalidWindow signals a weekly rule or override window outside
	// 00:00..24:00 or with end at or before start.
	ErrInvalidWindow = errors.New("window minutes out of range")

	// ErrInvalidRecurrence signals an unsupported recurrence frequency.
	ErrInvalidRecurrence = errors.New("unsupported recurrence frequency")
)
