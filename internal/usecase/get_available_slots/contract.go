package get_available_slots

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RuleStore resolves booking types by their public slug.
type RuleStore interface {
	GetBookingTypeBySlug(ctx context.Context, slug string) (*domain.BookingType, error)
}

// Resolver answers date-level bookability and open hours.
type Resolver interface {
	IsBookable(ctx context.Context, date time.Time, bookingType *domain.BookingType) (bool, error)
	HoursForDate(ctx context.Context, date time.Time) (*domain.DayHours, error)
}

// LedgerRepository reads booked counts for the date.
type LedgerRepository interface {
	GetRange(ctx context.Context, start, end time.Time) ([]*domain.SlotLedgerEntry, error)
}

// TimeProvider supplies the current time (swapped in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
