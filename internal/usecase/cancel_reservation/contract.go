package cancel_reservation

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// ReservationRepository marks reservation records cancelled.
type ReservationRepository interface {
	CancelByReference(ctx context.Context, reference string) error
}

// LedgerRepository releases the slot's capacity claim.
type LedgerRepository interface {
	Release(ctx context.Context, date time.Time, slotTime types.TimeString) error
}

// TransactionManager scopes the cancel + release pair.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
