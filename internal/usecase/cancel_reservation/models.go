package cancel_reservation

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Request identifies the slot to release. Reference is optional: callers that
// lost the confirmation reference can still free the slot capacity.
type Request struct {
	Date      time.Time
	StartTime types.TimeString
	Reference *string
}

// Response reports what the cancellation changed.
type Response struct {
	Released            bool
	ReservationAffected bool
}
