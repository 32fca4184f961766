package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/ptr"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

type stubRuleStore struct {
	windows   []*domain.AvailabilityWindow
	overrides map[string]*domain.AvailabilityOverride // keyed by YYYY-MM-DD
}

func (s *stubRuleStore) GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error) {
	return s.windows, nil
}

func (s *stubRuleStore) GetOverrideByDate(ctx context.Context, date time.Time) (*domain.AvailabilityOverride, error) {
	if o, ok := s.overrides[date.Format(domain.DateFormat)]; ok {
		return o, nil
	}
	return nil, rulesRepo.ErrOverrideNotFound
}

type stubCounter struct {
	counts map[string]int // keyed by YYYY-MM-DD
}

func (s *stubCounter) CountActiveByTypeAndDate(ctx context.Context, bookingTypeID int64, date time.Time) (int, error) {
	return s.counts[date.Format(domain.DateFormat)], nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Monday 2026-09-14 as "today" for all tests.
var testNow = time.Date(2026, 9, 14, 8, 30, 0, 0, time.UTC)

func openAllWeek() []*domain.AvailabilityWindow {
	windows := make([]*domain.AvailabilityWindow, 0, 7)
	for d := 0; d <= 6; d++ {
		windows = append(windows, &domain.AvailabilityWindow{
			DayOfWeek: d,
			StartTime: "09:00",
			EndTime:   "17:00",
			IsActive:  true,
		})
	}
	return windows
}

func newTestService(rules *stubRuleStore, counter *stubCounter, leadTimes map[string]int) *Service {
	if counter == nil {
		counter = &stubCounter{}
	}
	return NewService(rules, counter, leadTimes, 90, nopLogger{}).
		WithTimeProvider(&fixedTime{now: testNow})
}

func TestHoursForDate_WeeklyWindow(t *testing.T) {
	rules := &stubRuleStore{windows: openAllWeek()}
	svc := newTestService(rules, nil, nil)

	hours, err := svc.HoursForDate(context.Background(), testNow)
	require.NoError(t, err)
	require.NotNil(t, hours)
	assert.Equal(t, types.TimeString("09:00"), hours.Start)
	assert.Equal(t, types.TimeString("17:00"), hours.End)
}

func TestHoursForDate_ClosedWeekday(t *testing.T) {
	// Only Monday is open.
	rules := &stubRuleStore{windows: []*domain.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
	}}
	svc := newTestService(rules, nil, nil)

	tuesday := testNow.AddDate(0, 0, 1)
	hours, err := svc.HoursForDate(context.Background(), tuesday)
	require.NoError(t, err)
	assert.Nil(t, hours)
}

func TestHoursForDate_BlockedOverrideWins(t *testing.T) {
	rules := &stubRuleStore{
		windows: openAllWeek(),
		overrides: map[string]*domain.AvailabilityOverride{
			"2026-09-14": {Date: testNow, IsAvailable: false, Reason: ptr.Ptr("holiday")},
		},
	}
	svc := newTestService(rules, nil, nil)

	hours, err := svc.HoursForDate(context.Background(), testNow)
	require.NoError(t, err)
	assert.Nil(t, hours)
}

func TestHoursForDate_CustomHoursOverrideWins(t *testing.T) {
	start := types.TimeString("12:00")
	end := types.TimeString("15:00")
	rules := &stubRuleStore{
		windows: openAllWeek(),
		overrides: map[string]*domain.AvailabilityOverride{
			"2026-09-14": {Date: testNow, IsAvailable: true, StartTime: &start, EndTime: &end},
		},
	}
	svc := newTestService(rules, nil, nil)

	hours, err := svc.HoursForDate(context.Background(), testNow)
	require.NoError(t, err)
	require.NotNil(t, hours)
	assert.Equal(t, start, hours.Start)
	assert.Equal(t, end, hours.End)
}

func TestHoursForDate_OverrideOpensClosedDay(t *testing.T) {
	// Weekly template closed everywhere, but an override opens one date.
	start := types.TimeString("10:00")
	end := types.TimeString("14:00")
	rules := &stubRuleStore{
		windows: nil,
		overrides: map[string]*domain.AvailabilityOverride{
			"2026-09-14": {Date: testNow, IsAvailable: true, StartTime: &start, EndTime: &end},
		},
	}
	svc := newTestService(rules, nil, nil)

	hours, err := svc.HoursForDate(context.Background(), testNow)
	require.NoError(t, err)
	require.NotNil(t, hours)
	assert.Equal(t, start, hours.Start)
}

func TestIsBookable_LeadTimeBoundary(t *testing.T) {
	rules := &stubRuleStore{windows: openAllWeek()}
	svc := newTestService(rules, nil, map[string]int{"wedding-consultation": 7})

	bt := &domain.BookingType{ID: 1, Slug: "wedding-consultation", DurationMinutes: 60, IsActive: true}

	// Today + 6 is below the floor, today + 7 is exactly on it.
	below, err := svc.IsBookable(context.Background(), testNow.AddDate(0, 0, 6), bt)
	require.NoError(t, err)
	assert.False(t, below)

	onFloor, err := svc.IsBookable(context.Background(), testNow.AddDate(0, 0, 7), bt)
	require.NoError(t, err)
	assert.True(t, onFloor)
}

func TestIsBookable_PastDate(t *testing.T) {
	rules := &stubRuleStore{windows: openAllWeek()}
	svc := newTestService(rules, nil, nil)

	bt := &domain.BookingType{ID: 1, Slug: "cookie-box", DurationMinutes: 15, IsActive: true}
	bookable, err := svc.IsBookable(context.Background(), testNow.AddDate(0, 0, -1), bt)
	require.NoError(t, err)
	assert.False(t, bookable)
}

func TestIsBookable_InactiveType(t *testing.T) {
	rules := &stubRuleStore{windows: openAllWeek()}
	svc := newTestService(rules, nil, nil)

	bt := &domain.BookingType{ID: 1, Slug: "retired", DurationMinutes: 30, IsActive: false}
	bookable, err := svc.IsBookable(context.Background(), testNow, bt)
	require.NoError(t, err)
	assert.False(t, bookable)
}

func TestIsBookable_DailyCap(t *testing.T) {
	date := testNow.AddDate(0, 0, 1)
	rules := &stubRuleStore{windows: openAllWeek()}
	counter := &stubCounter{counts: map[string]int{date.Format(domain.DateFormat): 2}}
	svc := newTestService(rules, counter, nil)

	capped := &domain.BookingType{
		ID: 1, Slug: "custom-cake-pickup", DurationMinutes: 15, IsActive: true,
		MaxBookingsPerDay: ptr.Ptr(2),
	}
	bookable, err := svc.IsBookable(context.Background(), date, capped)
	require.NoError(t, err)
	assert.False(t, bookable, "cap reached, date must not be bookable")

	roomier := &domain.BookingType{
		ID: 2, Slug: "custom-cake-pickup", DurationMinutes: 15, IsActive: true,
		MaxBookingsPerDay: ptr.Ptr(3),
	}
	bookable, err = svc.IsBookable(context.Background(), date, roomier)
	require.NoError(t, err)
	assert.True(t, bookable)
}

func TestNextAvailableDate_SkipsClosedDays(t *testing.T) {
	// Only Wednesday (3) is open; today is Monday.
	rules := &stubRuleStore{windows: []*domain.AvailabilityWindow{
		{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00", IsActive: true},
	}}
	svc := newTestService(rules, nil, nil)

	bt := &domain.BookingType{ID: 1, Slug: "cookie-box", DurationMinutes: 15, IsActive: true}
	date, err := svc.NextAvailableDate(context.Background(), bt)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-16", date.Format(domain.DateFormat))
}

func TestNextAvailableDate_RespectsLeadTime(t *testing.T) {
	rules := &stubRuleStore{windows: openAllWeek()}
	svc := newTestService(rules, nil, map[string]int{"custom-cake-pickup": 3})

	bt := &domain.BookingType{ID: 1, Slug: "custom-cake-pickup", DurationMinutes: 15, IsActive: true}
	date, err := svc.NextAvailableDate(context.Background(), bt)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-17", date.Format(domain.DateFormat))
}

func TestNextAvailableDate_Exhausted(t *testing.T) {
	// Nothing is ever open.
	rules := &stubRuleStore{windows: nil}
	svc := newTestService(rules, nil, nil)

	bt := &domain.BookingType{ID: 1, Slug: "cookie-box", DurationMinutes: 15, IsActive: true}
	_, err := svc.NextAvailableDate(context.Background(), bt)
	assert.ErrorIs(t, err, ErrNoBookableDate)
}
