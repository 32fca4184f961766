package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/schedule"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// UseCase lists the offerable slots for one date and booking type. The
// answer is advisory; the reserve path re-checks everything atomically.
type UseCase struct {
	rules           RuleStore
	resolver        Resolver
	ledger          LedgerRepository
	defaultCapacity int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the get-available-slots use case.
func NewUseCase(
	rules RuleStore,
	resolver Resolver,
	ledger LedgerRepository,
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

// Execute resolves the date's slots and their remaining capacity.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: type=%s, date=%s", req.TypeSlug, req.Date.Format(domain.DateFormat))

	if req.TypeSlug == "" {
		return nil, fmt.Errorf("%w: booking type is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	day := dateOnly(req.Date)

	bookingType, err := uc.rules.GetBookingTypeBySlug(ctx, req.TypeSlug)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrBookingTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: booking type slug=%s not found", req.TypeSlug)
			return nil, ErrUnknownBookingType
		}
		uc.logger.Error("GetAvailableSlots: failed to get booking type slug=%s: %v", req.TypeSlug, err)
		return nil, fmt.Errorf("%w: failed to get booking type: %v", ErrInternal, err)
	}
	if !bookingType.IsActive {
		uc.logger.Warn("GetAvailableSlots: booking type slug=%s is inactive", req.TypeSlug)
		return nil, ErrUnknownBookingType
	}

	resp := &Response{
		Date:     day,
		TypeSlug: bookingType.Slug,
		Slots:    []Slot{},
	}

	bookable, err := uc.resolver.IsBookable(ctx, day, bookingType)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: bookability check failed: %v", err)
		return nil, fmt.Errorf("%w: bookability check: %v", ErrInternal, err)
	}
	if !bookable {
		uc.logger.Info("GetAvailableSlots: date %s not bookable for type=%s",
			day.Format(domain.DateFormat), req.TypeSlug)
		return resp, nil
	}

	hours, err := uc.resolver.HoursForDate(ctx, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: hours resolution failed: %v", err)
		return nil, fmt.Errorf("%w: hours resolution: %v", ErrInternal, err)
	}
	if hours == nil {
		return resp, nil
	}

	entries, err := uc.ledger.GetRange(ctx, day, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: ledger read failed: %v", err)
		return nil, fmt.Errorf("%w: ledger read: %v", ErrInternal, err)
	}
	ledgerByTime := make(map[types.TimeString]*domain.SlotLedgerEntry, len(entries))
	for _, e := range entries {
		ledgerByTime[e.Time] = e
	}

	// For today, slots that already started are not offered.
	now := uc.timeProvider.Now()
	var cutoff types.TimeString
	if day.Equal(dateOnly(now)) {
		cutoff = types.TimeString(now.Format("15:04"))
	}

	resp.Bookable = true
	for t := range schedule.SlotTimes(*hours, bookingType.SlotStepMinutes()) {
		if cutoff != "" && t.IsBefore(cutoff) {
			continue
		}
		capacity := uc.defaultCapacity
		booked := 0
		if e, ok := ledgerByTime[t]; ok {
			capacity = e.Capacity
			booked = e.Booked
		}
		remaining := capacity - booked
		if remaining <= 0 {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{
			StartTime:       t,
			DurationMinutes: bookingType.DurationMinutes,
			AvailableSpots:  remaining,
			TotalSpots:      capacity,
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots offered for type=%s date=%s",
		len(resp.Slots), req.TypeSlug, day.Format(domain.DateFormat))
	return resp, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
