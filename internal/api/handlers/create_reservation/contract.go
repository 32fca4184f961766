package create_reservation

import (
	"context"

	reserveSlot "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/reserve_slot"
)

type ReserveSlotUseCase interface {
	Execute(ctx context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error)
}

// ReservationMetrics records reservation outcomes. May be nil when metrics
// are disabled.
type ReservationMetrics interface {
	IncReservation(outcome string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
