package reserve_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/schedule"
)

// UseCase reserves a slot for a customer. The bookability re-check and the
// ledger claim run inside one serializable transaction, so of N concurrent
// attempts on a capacity-K slot exactly K succeed.
type UseCase struct {
	rules           RuleStore
	resolver        Resolver
	ledger          LedgerRepository
	reservations    ReservationRepository
	txManager       TransactionManager
	defaultCapacity int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the reserve-slot use case.
func NewUseCase(
	rules RuleStore,
	resolver Resolver,
	ledger LedgerRepository,
	reservations ReservationRepository,
	txManager TransactionManager,
	defaultCapacity int,
	logger Logger,
) *UseCase {
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultSlotCapacity
	}
	return &UseCase{
		rules:           rules,
		resolver:        resolver,
		ledger:          ledger,
		reservations:    reservations,
		txManager:       txManager,
		defaultCapacity: defaultCapacity,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider swaps the clock. Tests use this to pin "today".
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute validates the request, re-checks bookability and claims the slot.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: type=%s, date=%s, time=%s",
		req.TypeSlug, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Validate input shape.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("ReserveSlot: date validation failed: %v", err)
		return nil, err
	}
	day := dateOnly(req.Date)

	// 2. Resolve the booking type. Inactive types are not offered.
	bookingType, err := uc.rules.GetBookingTypeBySlug(ctx, req.TypeSlug)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrBookingTypeNotFound) {
			uc.logger.Warn("ReserveSlot: booking type slug=%s not found", req.TypeSlug)
			return nil, ErrUnknownBookingType
		}
		uc.logger.Error("ReserveSlot: failed to get booking type slug=%s: %v", req.TypeSlug, err)
		return nil, fmt.Errorf("%w: failed to get booking type: %v", ErrInternal, err)
	}
	if !bookingType.IsActive {
		uc.logger.Warn("ReserveSlot: booking type slug=%s is inactive", req.TypeSlug)
		return nil, ErrUnknownBookingType
	}

	var result *domain.Reservation

	// 3. Re-check and claim inside one serializable transaction. Availability
	// seen earlier by the caller may be stale; this is the authoritative pass.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Date-level bookability: lead-time floor, open hours, daily cap.
		bookable, err := uc.resolver.IsBookable(txCtx, day, bookingType)
		if err != nil {
			uc.logger.Error("ReserveSlot: bookability check failed: %v", err)
			return fmt.Errorf("%w: bookability check: %v", ErrInternal, err)
		}
		if !bookable {
			uc.logger.Warn("ReserveSlot: date %s not bookable for type=%s",
				day.Format(domain.DateFormat), req.TypeSlug)
			return ErrSlotUnavailable
		}

		// 3.2. The requested time must be one of the day's generated slots.
		hours, err := uc.resolver.HoursForDate(txCtx, day)
		if err != nil {
			uc.logger.Error("ReserveSlot: hours resolution failed: %v", err)
			return fmt.Errorf("%w: hours resolution: %v", ErrInternal, err)
		}
		if hours == nil {
			return ErrSlotUnavailable
		}
		slots := schedule.GenerateSlots(*hours, bookingType.SlotStepMinutes())
		if !isValidSlot(slots, req.StartTime) {
			uc.logger.Warn("ReserveSlot: time %s is not a valid slot on %s",
				req.StartTime, day.Format(domain.DateFormat))
			return ErrInvalidTimeSlot
		}

		// 3.3. Atomic per-slot capacity claim.
		claimed, err := uc.ledger.Reserve(txCtx, day, req.StartTime, uc.defaultCapacity)
		if err != nil {
			uc.logger.Error("ReserveSlot: ledger claim failed: %v", err)
			return fmt.Errorf("%w: ledger claim: %v", ErrInternal, err)
		}
		if !claimed {
			uc.logger.Warn("ReserveSlot: slot %s %s is full", day.Format(domain.DateFormat), req.StartTime)
			return ErrSlotUnavailable
		}

		// 3.4. Persist the reservation record.
		status := domain.StatusConfirmed
		if bookingType.RequiresApproval {
			status = domain.StatusPendingApproval
		}
		created, err := uc.reservations.Create(txCtx, &domain.Reservation{
			Reference:     uuid.NewString(),
			BookingTypeID: bookingType.ID,
			Date:          day,
			StartTime:     req.StartTime,
			Status:        status,
			Notes:         req.Notes,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveSlot: reserved ref=%s type=%s date=%s time=%s status=%s",
		result.Reference, req.TypeSlug, day.Format(domain.DateFormat), result.StartTime, result.Status)

	return &Response{
		Reference:       result.Reference,
		TypeSlug:        bookingType.Slug,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: bookingType.DurationMinutes,
		Status:          string(result.Status),
		CreatedAt:       result.CreatedAt,
	}, nil
}
