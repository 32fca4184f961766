package get_next_available_date

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RuleStore resolves booking types by their public slug.
type RuleStore interface {
	GetBookingTypeBySlug(ctx context.Context, slug string) (*domain.BookingType, error)
}

// Scheduler finds the first bookable date for a booking type.
type Scheduler interface {
	NextAvailableDate(ctx context.Context, bookingType *domain.BookingType) (time.Time, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
