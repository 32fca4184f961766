package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations/models"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Service is the calendar read side plus the ledger repair job.
type Service struct {
	ledger          LedgerRepository
	reservations    ReservationRepository
	resolver        HoursResolver
	txManager       TransactionManager
	defaultCapacity int
	logger          Logger
}

// NewService creates the calendar/sync service.
func NewService(
	ledger LedgerRepository,
	reservations ReservationRepository,
	resolver HoursResolver,
	txManager TransactionManager,
	defaultCapacity int,
	logger Logger,
) *Service {
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultSlotCapacity
	}
	return &Service{
		ledger:          ledger,
		reservations:    reservations,
		resolver:        resolver,
		txManager:       txManager,
		defaultCapacity: defaultCapacity,
		logger:          logger,
	}
}

// GetCalendar returns one summary per day in [start, end]: the resolved open
// hours and the fill level of every slot the ledger has a row for.
func (s *Service) GetCalendar(ctx context.Context, start, end time.Time) ([]*models.DaySummary, error) {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	entries, err := s.ledger.GetRange(ctx, start, end)
	if err != nil {
		s.logger.Error("GetCalendar: ledger read failed: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - ledger read: %v", ErrInternal, err)
	}

	slotsByDate := make(map[string][]models.SlotFill)
	for _, e := range entries {
		key := models.FormatDate(e.Date)
		slotsByDate[key] = append(slotsByDate[key], models.NewSlotFill(e))
	}

	var days []*models.DaySummary
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		hours, err := s.resolver.HoursForDate(ctx, d)
		if err != nil {
			s.logger.Error("GetCalendar: hours resolution failed for %s: %v", models.FormatDate(d), err)
			return nil, fmt.Errorf("%w: GetCalendar - hours resolution: %v", ErrInternal, err)
		}

		key := models.FormatDate(d)
		day := &models.DaySummary{
			Date:  key,
			Open:  hours != nil,
			Slots: slotsByDate[key],
		}
		if day.Slots == nil {
			day.Slots = []models.SlotFill{}
		}
		if hours != nil {
			openAt := hours.Start.String()
			closeAt := hours.End.String()
			day.Start = &openAt
			day.End = &closeAt
		}
		days = append(days, day)
	}

	return days, nil
}

// SyncLedger rebuilds booked counts in [start, end] from the reservation
// records, which are the source of truth. Slots with active reservations get
// their ledger row created if missing and its count set; ledger rows with a
// stale non-zero count and no active reservations are zeroed. Runs in one
// transaction so readers never see a half-repaired range.
func (s *Service) SyncLedger(ctx context.Context, start, end time.Time) (*models.SyncResult, error) {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	result := &models.SyncResult{
		Start: models.FormatDate(start),
		End:   models.FormatDate(end),
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		counts, err := s.reservations.CountActiveBySlotInRange(txCtx, start, end)
		if err != nil {
			return fmt.Errorf("counting reservations: %w", err)
		}

		counted := make(map[string]bool, len(counts))
		for _, c := range counts {
			counted[slotKey(c.Date, c.Time)] = true

			if err := s.ledger.EnsureEntry(txCtx, c.Date, c.Time, s.defaultCapacity); err != nil {
				return fmt.Errorf("ensuring ledger entry: %w", err)
			}
			if err := s.ledger.SetBooked(txCtx, c.Date, c.Time, c.Count); err != nil {
				return fmt.Errorf("setting booked count: %w", err)
			}
			result.SlotsUpdated++
		}

		entries, err := s.ledger.GetRange(txCtx, start, end)
		if err != nil {
			return fmt.Errorf("reading ledger range: %w", err)
		}
		for _, e := range entries {
			if e.Booked == 0 || counted[slotKey(e.Date, e.Time)] {
				continue
			}
			if err := s.ledger.SetBooked(txCtx, e.Date, e.Time, 0); err != nil {
				return fmt.Errorf("clearing stale entry: %w", err)
			}
			result.SlotsCleared++
		}

		return nil
	})
	if err != nil {
		s.logger.Error("SyncLedger: repair failed for %s..%s: %v", result.Start, result.End, err)
		return nil, fmt.Errorf("%w: SyncLedger - %v", ErrInternal, err)
	}

	s.logger.Info("SyncLedger: range %s..%s repaired, updated=%d cleared=%d",
		result.Start, result.End, result.SlotsUpdated, result.SlotsCleared)
	return result, nil
}

func slotKey(date time.Time, t types.TimeString) string {
	return date.Format(domain.DateFormat) + "T" + t.String()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
