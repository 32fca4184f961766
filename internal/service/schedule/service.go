package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
)

// Service is the availability resolver: it combines the weekly template,
// per-date overrides, lead-time floors and daily caps into bookability
// answers. It never mutates state and never reads per-slot ledger capacity;
// that check happens at reservation time to avoid a read-then-write window.
type Service struct {
	rules        RuleStore
	reservations ReservationCounter
	leadTimeDays map[string]int // booking-type slug -> min advance days
	horizonDays  int
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the resolver. leadTimeDays maps booking-type slugs to
// their minimum advance days; slugs without an entry need no notice.
func NewService(
	rules RuleStore,
	reservations ReservationCounter,
	leadTimeDays map[string]int,
	horizonDays int,
	logger Logger,
) *Service {
	if leadTimeDays == nil {
		leadTimeDays = map[string]int{}
	}
	if horizonDays <= 0 {
		horizonDays = domain.DefaultScanHorizonDays
	}
	return &Service{
		rules:        rules,
		reservations: reservations,
		leadTimeDays: leadTimeDays,
		horizonDays:  horizonDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider swaps the clock. Tests use this to pin "today".
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// LeadTimeDays returns the minimum advance days for a booking-type slug.
func (s *Service) LeadTimeDays(slug string) int {
	return s.leadTimeDays[slug]
}

// HoursForDate resolves the open hours for a concrete date. An override for
// the exact date wins: blocked means closed no matter what the weekly
// template says, custom hours replace the weekday's hours. Without an
// override the weekday window applies. nil means closed.
func (s *Service) HoursForDate(ctx context.Context, date time.Time) (*domain.DayHours, error) {
	day := dateOnly(date)

	override, err := s.rules.GetOverrideByDate(ctx, day)
	if err != nil && !errors.Is(err, rulesRepo.ErrOverrideNotFound) {
		return nil, fmt.Errorf("%w: HoursForDate - get override: %v", ErrInternal, err)
	}
	if override != nil {
		if !override.IsAvailable {
			return nil, nil
		}
		return override.Hours(), nil
	}

	windows, err := s.rules.GetWeeklyWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: HoursForDate - get weekly windows: %v", ErrInternal, err)
	}

	weekday := int(day.Weekday())
	for _, w := range windows {
		if w.DayOfWeek == weekday && w.IsOpen() {
			return &domain.DayHours{Start: w.StartTime, End: w.EndTime}, nil
		}
	}

	return nil, nil
}

// IsBookable reports whether any slot on the date could be booked for the
// given type: the date is not in the past, satisfies the type's lead-time
// floor (inclusive), the day is open, and the type's daily cap (if any) has
// room. Per-slot ledger capacity is deliberately not consulted here.
func (s *Service) IsBookable(ctx context.Context, date time.Time, bookingType *domain.BookingType) (bool, error) {
	if !bookingType.IsActive {
		return false, nil
	}

	now := s.timeProvider.Now()
	if isDateInPast(date, now) {
		return false, nil
	}

	floor := s.earliestDate(now, bookingType.Slug)
	if dateOnly(date).Before(floor) {
		return false, nil
	}

	hours, err := s.HoursForDate(ctx, date)
	if err != nil {
		return false, err
	}
	if hours == nil {
		return false, nil
	}

	if bookingType.HasDailyCap() {
		count, err := s.reservations.CountActiveByTypeAndDate(ctx, bookingType.ID, dateOnly(date))
		if err != nil {
			return false, fmt.Errorf("%w: IsBookable - count daily reservations: %v", ErrInternal, err)
		}
		if count >= *bookingType.MaxBookingsPerDay {
			return false, nil
		}
	}

	return true, nil
}

// NextAvailableDate scans forward day by day from the lead-time floor,
// bounded by the configured horizon, and returns the first bookable date.
// Exhausting the horizon is an operator-facing configuration problem.
func (s *Service) NextAvailableDate(ctx context.Context, bookingType *domain.BookingType) (time.Time, error) {
	now := s.timeProvider.Now()
	start := s.earliestDate(now, bookingType.Slug)
	limit := dateOnly(now).AddDate(0, 0, s.horizonDays)

	for d := start; !d.After(limit); d = d.AddDate(0, 0, 1) {
		bookable, err := s.IsBookable(ctx, d, bookingType)
		if err != nil {
			return time.Time{}, err
		}
		if bookable {
			return d, nil
		}
	}

	s.logger.Error("NextAvailableDate: no bookable date for type=%s within %d days; check weekly windows and overrides",
		bookingType.Slug, s.horizonDays)
	return time.Time{}, ErrNoBookableDate
}

// earliestDate returns the first selectable date for a booking type:
// today plus its lead-time days, inclusive.
func (s *Service) earliestDate(now time.Time, slug string) time.Time {
	return dateOnly(now).AddDate(0, 0, s.leadTimeDays[slug])
}
