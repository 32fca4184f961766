package reservations

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// LedgerRepository is the slot ledger surface the read/repair side uses.
type LedgerRepository interface {
	GetRange(ctx context.Context, start, end time.Time) ([]*domain.SlotLedgerEntry, error)
	EnsureEntry(ctx context.Context, date time.Time, slotTime types.TimeString, defaultCapacity int) error
	SetBooked(ctx context.Context, date time.Time, slotTime types.TimeString, booked int) error
}

// ReservationRepository supplies authoritative per-slot counts.
type ReservationRepository interface {
	CountActiveBySlotInRange(ctx context.Context, start, end time.Time) ([]*domain.SlotBookedCount, error)
}

// HoursResolver resolves a date's open hours (override-aware).
type HoursResolver interface {
	HoursForDate(ctx context.Context, date time.Time) (*domain.DayHours, error)
}

// TransactionManager scopes the sync repair so readers never observe a
// half-repaired range.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
