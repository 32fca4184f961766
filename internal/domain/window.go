package domain

import "github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"

// AvailabilityWindow is the recurring weekly template: the open hours for
// one weekday. At most one row exists per weekday; a missing or inactive
// row means the shop is closed that day.
type AvailabilityWindow struct {
	DayOfWeek int // 0 = Sunday .. 6 = Saturday
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
}

// IsOpen returns true if the window admits bookings.
func (w *AvailabilityWindow) IsOpen() bool {
	return w.IsActive && !w.StartTime.IsZero() && !w.EndTime.IsZero()
}

// DayHours is a resolved pair of open hours for a concrete date, after
// overrides have been applied. A nil *DayHours means closed.
type DayHours struct {
	Start types.TimeString
	End   types.TimeString
}
