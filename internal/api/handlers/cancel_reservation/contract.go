package cancel_reservation

import (
	"context"

	cancelReservation "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/cancel_reservation"
)

type CancelReservationUseCase interface {
	Execute(ctx context.Context, req *cancelReservation.Request) (*cancelReservation.Response, error)
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
