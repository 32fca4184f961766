package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

type stubRuleStore struct {
	types map[string]*domain.BookingType
}

func (s *stubRuleStore) GetBookingTypeBySlug(ctx context.Context, slug string) (*domain.BookingType, error) {
	bt, ok := s.types[slug]
	if !ok {
		return nil, rulesRepo.ErrBookingTypeNotFound
	}
	return bt, nil
}

type stubResolver struct {
	bookable bool
	hours    *domain.DayHours
}

func (s *stubResolver) IsBookable(ctx context.Context, date time.Time, bt *domain.BookingType) (bool, error) {
	return s.bookable, nil
}

func (s *stubResolver) HoursForDate(ctx context.Context, date time.Time) (*domain.DayHours, error) {
	return s.hours, nil
}

type stubLedger struct {
	entries []*domain.SlotLedgerEntry
}

func (s *stubLedger) GetRange(ctx context.Context, start, end time.Time) ([]*domain.SlotLedgerEntry, error) {
	return s.entries, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testDate = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

func consultationType() *domain.BookingType {
	return &domain.BookingType{
		ID:                 1,
		Name:               "Wedding consultation",
		Slug:               "wedding-consultation",
		DurationMinutes:    45,
		BufferAfterMinutes: 15,
		IsActive:           true,
	}
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

func newUseCase(resolver *stubResolver, ledger *stubLedger) *UseCase {
	rules := &stubRuleStore{types: map[string]*domain.BookingType{
		"wedding-consultation": consultationType(),
	}}
	return NewUseCase(rules, resolver, ledger, 2, nopLogger{}).
		WithTimeProvider(&fixedTime{now: testDate.AddDate(0, 0, -1)})
}

func TestExecute_OffersSlotsWithRemainingCapacity(t *testing.T) {
	resolver := &stubResolver{
		bookable: true,
		hours:    &domain.DayHours{Start: "10:00", End: "13:00"},
	}
	// 10:00 is full, 11:00 is half taken, 12:00 has no ledger row.
	ledger := &stubLedger{entries: []*domain.SlotLedgerEntry{
		{Date: testDate, Time: "10:00", Capacity: 2, Booked: 2},
		{Date: testDate, Time: "11:00", Capacity: 2, Booked: 1},
	}}

	uc := newUseCase(resolver, ledger)
	resp, err := uc.Execute(context.Background(), &Request{
		TypeSlug: "wedding-consultation", Date: testDate,
	})
	require.NoError(t, err)
	assert.True(t, resp.Bookable)

	// Step is duration + buffer = 60 minutes; the full 10:00 slot is dropped.
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[1].StartTime)
	assert.Equal(t, 2, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 45, resp.Slots[1].DurationMinutes)
}

func TestExecute_TodayHidesStartedSlots(t *testing.T) {
	resolver := &stubResolver{
		bookable: true,
		hours:    &domain.DayHours{Start: "10:00", End: "13:00"},
	}

	// It is 11:30 on the requested day; only the 12:00 slot is still ahead.
	uc := newUseCase(resolver, &stubLedger{}).
		WithTimeProvider(&fixedTime{now: testDate.Add(11*time.Hour + 30*time.Minute)})

	resp, err := uc.Execute(context.Background(), &Request{
		TypeSlug: "wedding-consultation", Date: testDate,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[0].StartTime)
}

func TestExecute_NotBookableDate(t *testing.T) {
	resolver := &stubResolver{bookable: false}
	uc := newUseCase(resolver, &stubLedger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TypeSlug: "wedding-consultation", Date: testDate,
	})
	require.NoError(t, err)
	assert.False(t, resp.Bookable)
	assert.Empty(t, resp.Slots)
}

func TestExecute_UnknownType(t *testing.T) {
	uc := newUseCase(&stubResolver{bookable: true}, &stubLedger{})

	_, err := uc.Execute(context.Background(), &Request{
		TypeSlug: "dog-grooming", Date: testDate,
	})
	assert.ErrorIs(t, err, ErrUnknownBookingType)
}

func TestExecute_MissingInput(t *testing.T) {
	uc := newUseCase(&stubResolver{bookable: true}, &stubLedger{})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{TypeSlug: "wedding-consultation"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
