package schedule

import "errors"

var (
	// ErrNoBookableDate is returned when no date within the scan horizon is
	// bookable. This signals a configuration problem (e.g. every weekday
	// inactive), not a normal business outcome.
	ErrNoBookableDate = errors.New("schedule: no bookable date within horizon")

	// ErrInternal is returned on unexpected resolver failures.
	ErrInternal = errors.New("schedule: internal error")
)
