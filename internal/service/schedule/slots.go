package schedule

import (
	"iter"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// SlotTimes returns the slot start times for a day's hours, stepped by
// stepMinutes. The sequence is half-open at the end: a slot starting exactly
// at the closing time is excluded. Pure and restartable; both pickup pickers
// and admin hour editors iterate it.
func SlotTimes(hours domain.DayHours, stepMinutes int) iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		if stepMinutes <= 0 {
			return
		}
		for t := hours.Start; t.IsBefore(hours.End); {
			if !yield(t) {
				return
			}
			next, err := t.AddMinutes(stepMinutes)
			if err != nil {
				// Stepping past midnight ends the day.
				return
			}
			t = next
		}
	}
}

// GenerateSlots collects SlotTimes into a slice.
func GenerateSlots(hours domain.DayHours, stepMinutes int) []types.TimeString {
	slots := make([]types.TimeString, 0)
	for t := range SlotTimes(hours, stepMinutes) {
		slots = append(slots, t)
	}
	return slots
}

// dateOnly truncates a timestamp to midnight of its day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isDateInPast reports whether date falls on a day before now's day.
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}
