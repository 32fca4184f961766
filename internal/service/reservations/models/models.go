package models

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// SlotFill is one ledger slot's fill level for calendar coloring.
type SlotFill struct {
	Time     types.TimeString `json:"time"`
	Booked   int              `json:"booked"`
	Capacity int              `json:"capacity"`
	State    string           `json:"state"`
}

// DaySummary is one calendar day: resolved hours plus the fill level of
// every slot the ledger knows about. Slots never booked have no ledger row
// and are omitted; renderers treat missing slots as empty.
type DaySummary struct {
	Date  string     `json:"date"`
	Open  bool       `json:"open"`
	Start *string    `json:"start,omitempty"`
	End   *string    `json:"end,omitempty"`
	Slots []SlotFill `json:"slots"`
}

// SyncResult summarizes a ledger repair run.
type SyncResult struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	SlotsUpdated int    `json:"slotsUpdated"`
	SlotsCleared int    `json:"slotsCleared"`
}

// NewSlotFill converts a ledger entry.
func NewSlotFill(e *domain.SlotLedgerEntry) SlotFill {
	return SlotFill{
		Time:     e.Time,
		Booked:   e.Booked,
		Capacity: e.Capacity,
		State:    string(e.State()),
	}
}

// FormatDate renders a date the way the API does everywhere.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateFormat)
}
