package rules

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RuleRepository is the calendar rule store the admin service writes through.
type RuleRepository interface {
	GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error)
	ReplaceWeeklyWindows(ctx context.Context, windows []*domain.AvailabilityWindow) error
	ListBookingTypes(ctx context.Context, includeInactive bool) ([]*domain.BookingType, error)
	GetBookingTypeByID(ctx context.Context, id int64) (*domain.BookingType, error)
	UpsertBookingType(ctx context.Context, bt *domain.BookingType) (*domain.BookingType, error)
	DeleteBookingType(ctx context.Context, id int64) error
	GetOverridesInRange(ctx context.Context, start, end time.Time) ([]*domain.AvailabilityOverride, error)
	AddOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	RemoveOverride(ctx context.Context, id int64) error
}

// ReservationChecker answers whether a booking type still has future
// reservations (blocks deletion).
type ReservationChecker interface {
	HasActiveOnOrAfter(ctx context.Context, bookingTypeID int64, date time.Time) (bool, error)
}

// TransactionManager scopes multi-statement admin writes.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface the service needs.
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
