package schedule

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RuleStore is the slice of the calendar rule store the resolver reads.
type RuleStore interface {
	GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error)
	GetOverrideByDate(ctx context.Context, date time.Time) (*domain.AvailabilityOverride, error)
}

// ReservationCounter counts active reservations for the daily cap check.
type ReservationCounter interface {
	CountActiveByTypeAndDate(ctx context.Context, bookingTypeID int64, date time.Time) (int, error)
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the resolver needs.
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
