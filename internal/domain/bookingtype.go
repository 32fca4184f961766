package domain

import "time"

// BookingType is a category of reservable service, e.g. "cake pickup" or
// "consultation". Duration plus buffer determine how much of a day's window
// one booking consumes when slots are generated.
type BookingType struct {
	ID                 int64
	Name               string
	Slug               string // unique, used in URLs and API requests
	DurationMinutes    int
	BufferAfterMinutes int
	MaxBookingsPerDay  *int // nil = no daily cap
	RequiresApproval   bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SlotStepMinutes is the slot generation step for this type: the booking
// duration plus the cleanup/buffer time after it.
func (t *BookingType) SlotStepMinutes() int {
	return t.DurationMinutes + t.BufferAfterMinutes
}

// HasDailyCap returns true if a per-day booking limit is configured.
func (t *BookingType) HasDailyCap() bool {
	return t.MaxBookingsPerDay != nil && *t.MaxBookingsPerDay > 0
}
