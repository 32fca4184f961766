package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	reservationRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/reservation"
)

// UseCase releases a reserved slot. Cancellation is idempotent: cancelling a
// slot that is already free, or a reference that is already cancelled, is a
// success. The ledger release is floored at zero, so repeated cancels never
// drive the booked count negative.
type UseCase struct {
	reservations ReservationRepository
	ledger       LedgerRepository
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase creates the cancel-reservation use case.
func NewUseCase(
	reservations ReservationRepository,
	ledger LedgerRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		ledger:       ledger,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute cancels the reservation record (when a reference is given) and
// releases the slot's capacity claim, atomically.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: date=%s, time=%s, hasRef=%t",
		req.Date.Format(domain.DateFormat), req.StartTime, req.Reference != nil)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}

	resp := &Response{}
	day := dateOnly(req.Date)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if req.Reference != nil && *req.Reference != "" {
			err := uc.reservations.CancelByReference(txCtx, *req.Reference)
			switch {
			case err == nil:
				resp.ReservationAffected = true
			case errors.Is(err, reservationRepo.ErrAlreadyCancelled):
				// Slot was already freed by the earlier cancel.
				uc.logger.Info("CancelReservation: ref=%s already cancelled", *req.Reference)
				return nil
			case errors.Is(err, reservationRepo.ErrReservationNotFound):
				// Unknown reference; still release the slot so a ledger entry
				// created outside the reservation flow can be freed.
				uc.logger.Warn("CancelReservation: ref=%s not found", *req.Reference)
			default:
				uc.logger.Error("CancelReservation: failed to cancel ref=%s: %v", *req.Reference, err)
				return fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
			}
		}

		if err := uc.ledger.Release(txCtx, day, req.StartTime); err != nil {
			uc.logger.Error("CancelReservation: ledger release failed: %v", err)
			return fmt.Errorf("%w: ledger release: %v", ErrInternal, err)
		}
		resp.Released = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelReservation: date=%s time=%s released=%t reservationAffected=%t",
		day.Format(domain.DateFormat), req.StartTime, resp.Released, resp.ReservationAffected)
	return resp, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
