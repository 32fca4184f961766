package admin_booking_types

import (
	"context"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RulesService manages booking types.
type RulesService interface {
	ListBookingTypes(ctx context.Context, includeInactive bool) ([]*domain.BookingType, error)
	UpsertBookingType(ctx context.Context, bt *domain.BookingType) (*domain.BookingType, error)
	DeleteBookingType(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
