package get_available_slots

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Request asks for the bookable slots of one date and booking type.
type Request struct {
	TypeSlug string
	Date     time.Time
}

// Response lists the date's slots. Bookable is false when the whole date is
// closed, capped out or behind the lead-time floor; Slots is then empty.
type Response struct {
	Date     time.Time
	TypeSlug string
	Bookable bool
	Slots    []Slot
}

// Slot is one offerable start time with its remaining capacity.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	AvailableSpots  int
	TotalSpots      int
}
