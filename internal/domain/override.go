package domain

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// AvailabilityOverride is a per-date exception to the weekly template.
// Either it blocks the date entirely (IsAvailable = false) or it replaces
// the weekday's hours with explicit ones. At most one override exists per
// date; an override always wins over the weekly window.
type AvailabilityOverride struct {
	ID          int64
	Date        time.Time // date only, midnight UTC
	IsAvailable bool
	StartTime   *types.TimeString // set when IsAvailable = true
	EndTime     *types.TimeString
	Reason      *string
	CreatedAt   time.Time
}

// Hours returns the override's explicit hours, or nil when the date is
// blocked or the hours are incomplete.
func (o *AvailabilityOverride) Hours() *DayHours {
	if !o.IsAvailable || o.StartTime == nil || o.EndTime == nil {
		return nil
	}
	return &DayHours{Start: *o.StartTime, End: *o.EndTime}
}
