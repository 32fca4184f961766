package reserve_slot

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Request carries the customer's reservation attempt.
type Request struct {
	TypeSlug  string
	Date      time.Time
	StartTime types.TimeString
	Notes     *string
}

// Response is the confirmed reservation handed back to the caller.
type Response struct {
	Reference       string
	TypeSlug        string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
}
