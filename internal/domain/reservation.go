package domain

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// ReservationStatus is the lifecycle state of a reservation record.
type ReservationStatus string

const (
	StatusConfirmed       ReservationStatus = "confirmed"
	StatusPendingApproval ReservationStatus = "pending_approval"
	StatusCancelled       ReservationStatus = "cancelled"
)

// ActiveStatuses lists statuses that hold a slot. Used for daily-cap counts
// and for ledger drift repair.
var ActiveStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusPendingApproval,
}

// Reservation is the durable record of a confirmed slot reservation. The
// caller's order record (external) stores the confirmed date/time too; this
// row exists so daily caps are countable and the ledger can be repaired from
// an authoritative source.
type Reservation struct {
	ID            int64
	Reference     string // opaque confirmation reference handed to the caller
	BookingTypeID int64
	Date          time.Time // date only, midnight UTC
	StartTime     types.TimeString
	Status        ReservationStatus
	Notes         *string
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive returns true while the reservation holds a slot.
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}
