package domain

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// SlotState describes how full a slot is.
type SlotState string

const (
	SlotEmpty           SlotState = "empty"
	SlotPartiallyBooked SlotState = "partially_booked"
	SlotFull            SlotState = "full"
)

// SlotLedgerEntry is the per-(date, time) booking count against capacity.
// Rows are created lazily on first booking attempt and live indefinitely as
// a record of fill level. Invariant: 0 <= Booked <= Capacity.
type SlotLedgerEntry struct {
	Date     time.Time // date only, midnight UTC
	Time     types.TimeString
	Capacity int
	Booked   int
}

// State returns the slot's position in the EMPTY -> PARTIALLY_BOOKED -> FULL
// progression.
func (e *SlotLedgerEntry) State() SlotState {
	switch {
	case e.Booked <= 0:
		return SlotEmpty
	case e.Booked >= e.Capacity:
		return SlotFull
	default:
		return SlotPartiallyBooked
	}
}

// Remaining returns the number of open spots, floored at zero.
func (e *SlotLedgerEntry) Remaining() int {
	if r := e.Capacity - e.Booked; r > 0 {
		return r
	}
	return 0
}

// IsFull returns true when no spots remain.
func (e *SlotLedgerEntry) IsFull() bool {
	return e.Booked >= e.Capacity
}

// SlotBookedCount is an authoritative per-slot count of active reservations,
// used to repair ledger drift after manual edits.
type SlotBookedCount struct {
	Date  time.Time
	Time  types.TimeString
	Count int
}
