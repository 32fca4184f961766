package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
)

// Service is the admin surface over the calendar rule store: weekly
// windows, booking types and per-date overrides.
type Service struct {
	repo         RuleRepository
	reservations ReservationChecker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the rules admin service.
func NewService(
	repo RuleRepository,
	reservations ReservationChecker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider swaps the clock. Tests use this to pin "today".
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetWeeklyWindows returns the weekly availability template.
func (s *Service) GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error) {
	windows, err := s.repo.GetWeeklyWindows(ctx)
	if err != nil {
		s.logger.Error("GetWeeklyWindows: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWeeklyWindows - repository error: %v", ErrInternal, err)
	}
	return windows, nil
}

// ReplaceWeeklyWindows replaces the whole weekly template in one
// transaction, so a concurrent reader never sees a half-updated week.
// Idempotent: replaying the same set of windows is a no-op in effect.
func (s *Service) ReplaceWeeklyWindows(ctx context.Context, windows []*domain.AvailabilityWindow) error {
	if err := validateWeeklyWindows(windows); err != nil {
		s.logger.Warn("ReplaceWeeklyWindows: validation failed: %v", err)
		return err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceWeeklyWindows(txCtx, windows)
	})
	if err != nil {
		s.logger.Error("ReplaceWeeklyWindows: repository error: %v", err)
		return fmt.Errorf("%w: ReplaceWeeklyWindows - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWeeklyWindows: weekly template replaced with %d windows", len(windows))
	return nil
}

// ListBookingTypes returns booking types; inactive ones only when requested.
func (s *Service) ListBookingTypes(ctx context.Context, includeInactive bool) ([]*domain.BookingType, error) {
	bookingTypes, err := s.repo.ListBookingTypes(ctx, includeInactive)
	if err != nil {
		s.logger.Error("ListBookingTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookingTypes - repository error: %v", ErrInternal, err)
	}
	return bookingTypes, nil
}

// UpsertBookingType creates or updates a booking type keyed by its slug.
func (s *Service) UpsertBookingType(ctx context.Context, bt *domain.BookingType) (*domain.BookingType, error) {
	if err := validateBookingType(bt); err != nil {
		s.logger.Warn("UpsertBookingType: validation failed for slug=%s: %v", bt.Slug, err)
		return nil, err
	}

	stored, err := s.repo.UpsertBookingType(ctx, bt)
	if err != nil {
		s.logger.Error("UpsertBookingType: repository error for slug=%s: %v", bt.Slug, err)
		return nil, fmt.Errorf("%w: UpsertBookingType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertBookingType: stored booking type id=%d slug=%s", stored.ID, stored.Slug)
	return stored, nil
}

// DeleteBookingType removes a booking type unless future reservations still
// reference it, in which case it fails with ErrTypeInUse so the admin UI can
// explain the blocking dependency.
func (s *Service) DeleteBookingType(ctx context.Context, id int64) error {
	if _, err := s.repo.GetBookingTypeByID(ctx, id); err != nil {
		if errors.Is(err, rulesRepo.ErrBookingTypeNotFound) {
			s.logger.Warn("DeleteBookingType: booking type id=%d not found", id)
			return ErrBookingTypeNotFound
		}
		s.logger.Error("DeleteBookingType: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBookingType - repository error: %v", ErrInternal, err)
	}

	today := dateOnly(s.timeProvider.Now())
	inUse, err := s.reservations.HasActiveOnOrAfter(ctx, id, today)
	if err != nil {
		s.logger.Error("DeleteBookingType: reservation check failed for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBookingType - reservation check: %v", ErrInternal, err)
	}
	if inUse {
		s.logger.Warn("DeleteBookingType: booking type id=%d has future reservations", id)
		return ErrTypeInUse
	}

	if err := s.repo.DeleteBookingType(ctx, id); err != nil {
		if errors.Is(err, rulesRepo.ErrBookingTypeNotFound) {
			return ErrBookingTypeNotFound
		}
		s.logger.Error("DeleteBookingType: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBookingType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBookingType: deleted booking type id=%d", id)
	return nil
}

// GetOverridesInRange returns per-date overrides for a date range.
func (s *Service) GetOverridesInRange(ctx context.Context, start, end time.Time) ([]*domain.AvailabilityOverride, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	overrides, err := s.repo.GetOverridesInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("GetOverridesInRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOverridesInRange - repository error: %v", ErrInternal, err)
	}
	return overrides, nil
}

// AddOverride creates a per-date exception. A date can have at most one
// override; the existing one must be removed before adding another.
func (s *Service) AddOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	if err := validateOverride(o); err != nil {
		s.logger.Warn("AddOverride: validation failed for date=%s: %v", o.Date.Format(domain.DateFormat), err)
		return nil, err
	}

	o.Date = dateOnly(o.Date)

	stored, err := s.repo.AddOverride(ctx, o)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrDuplicateOverride) {
			s.logger.Warn("AddOverride: override already exists for date=%s", o.Date.Format(domain.DateFormat))
			return nil, ErrDuplicateOverride
		}
		s.logger.Error("AddOverride: repository error for date=%s: %v", o.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: AddOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddOverride: stored override id=%d date=%s available=%t",
		stored.ID, stored.Date.Format(domain.DateFormat), stored.IsAvailable)
	return stored, nil
}

// RemoveOverride deletes an override by ID.
func (s *Service) RemoveOverride(ctx context.Context, id int64) error {
	if err := s.repo.RemoveOverride(ctx, id); err != nil {
		if errors.Is(err, rulesRepo.ErrOverrideNotFound) {
			s.logger.Warn("RemoveOverride: override id=%d not found", id)
			return ErrOverrideNotFound
		}
		s.logger.Error("RemoveOverride: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: RemoveOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveOverride: removed override id=%d", id)
	return nil
}

// Validation

func validateWeeklyWindows(windows []*domain.AvailabilityWindow) error {
	seen := make(map[int]bool, len(windows))

	for _, w := range windows {
		if w.DayOfWeek < domain.MinDayOfWeek || w.DayOfWeek > domain.MaxDayOfWeek {
			return fmt.Errorf("%w: day_of_week %d out of range [0,6]", ErrInvalidInput, w.DayOfWeek)
		}
		if seen[w.DayOfWeek] {
			return fmt.Errorf("%w: duplicate window for day_of_week %d", ErrInvalidInput, w.DayOfWeek)
		}
		seen[w.DayOfWeek] = true

		if !w.IsActive {
			continue
		}
		if err := w.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: day %d start_time: %v", ErrInvalidInput, w.DayOfWeek, err)
		}
		if err := w.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: day %d end_time: %v", ErrInvalidInput, w.DayOfWeek, err)
		}
		if !w.StartTime.IsBefore(w.EndTime) {
			return fmt.Errorf("%w: day %d start_time must be before end_time", ErrInvalidInput, w.DayOfWeek)
		}
	}

	return nil
}

func validateBookingType(bt *domain.BookingType) error {
	if bt.Name == "" || len(bt.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if bt.Slug == "" || len(bt.Slug) > domain.MaxSlugLength {
		return fmt.Errorf("%w: slug must be 1-%d characters", ErrInvalidInput, domain.MaxSlugLength)
	}
	if bt.DurationMinutes < domain.MinDurationMinutes || bt.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration_minutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	if bt.BufferAfterMinutes < domain.MinBufferMinutes || bt.BufferAfterMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: buffer_after_minutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if bt.MaxBookingsPerDay != nil && *bt.MaxBookingsPerDay < domain.MinDailyCap {
		return fmt.Errorf("%w: max_bookings_per_day must be at least %d", ErrInvalidInput, domain.MinDailyCap)
	}
	return nil
}

func validateOverride(o *domain.AvailabilityOverride) error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if o.Reason != nil && len(*o.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if !o.IsAvailable {
		// Blocked date: hours are ignored.
		return nil
	}

	if o.StartTime == nil || o.EndTime == nil {
		return fmt.Errorf("%w: available override requires start_time and end_time", ErrInvalidInput)
	}
	if err := o.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	if err := o.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
	}
	if !o.StartTime.IsBefore(*o.EndTime) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
