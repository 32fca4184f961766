package rules

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

type stubRepo struct {
	windows      []*domain.AvailabilityWindow
	bookingTypes map[int64]*domain.BookingType
	overrides    map[string]*domain.AvailabilityOverride // keyed by YYYY-MM-DD
	nextID       int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		bookingTypes: map[int64]*domain.BookingType{},
		overrides:    map[string]*domain.AvailabilityOverride{},
		nextID:       1,
	}
}

func (s *stubRepo) GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error) {
	return s.windows, nil
}

func (s *stubRepo) ReplaceWeeklyWindows(ctx context.Context, windows []*domain.AvailabilityWindow) error {
	s.windows = windows
	return nil
}

func (s *stubRepo) ListBookingTypes(ctx context.Context, includeInactive bool) ([]*domain.BookingType, error) {
	out := make([]*domain.BookingType, 0, len(s.bookingTypes))
	for _, bt := range s.bookingTypes {
		if bt.IsActive || includeInactive {
			out = append(out, bt)
		}
	}
	return out, nil
}

func (s *stubRepo) GetBookingTypeByID(ctx context.Context, id int64) (*domain.BookingType, error) {
	bt, ok := s.bookingTypes[id]
	if !ok {
		return nil, rulesRepo.ErrBookingTypeNotFound
	}
	return bt, nil
}

func (s *stubRepo) UpsertBookingType(ctx context.Context, bt *domain.BookingType) (*domain.BookingType, error) {
	stored := *bt
	if stored.ID == 0 {
		stored.ID = s.nextID
		s.nextID++
	}
	s.bookingTypes[stored.ID] = &stored
	return &stored, nil
}

func (s *stubRepo) DeleteBookingType(ctx context.Context, id int64) error {
	if _, ok := s.bookingTypes[id]; !ok {
		return rulesRepo.ErrBookingTypeNotFound
	}
	delete(s.bookingTypes, id)
	return nil
}

func (s *stubRepo) GetOverridesInRange(ctx context.Context, start, end time.Time) ([]*domain.AvailabilityOverride, error) {
	out := make([]*domain.AvailabilityOverride, 0)
	for _, o := range s.overrides {
		if !o.Date.Before(start) && !o.Date.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubRepo) AddOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	key := o.Date.Format(domain.DateFormat)
	if _, exists := s.overrides[key]; exists {
		return nil, rulesRepo.ErrDuplicateOverride
	}
	stored := *o
	stored.ID = s.nextID
	s.nextID++
	s.overrides[key] = &stored
	return &stored, nil
}

func (s *stubRepo) RemoveOverride(ctx context.Context, id int64) error {
	for key, o := range s.overrides {
		if o.ID == id {
			delete(s.overrides, key)
			return nil
		}
	}
	return rulesRepo.ErrOverrideNotFound
}

type stubChecker struct {
	inUse bool
}

func (s *stubChecker) HasActiveOnOrAfter(ctx context.Context, bookingTypeID int64, date time.Time) (bool, error) {
	return s.inUse, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(repo *stubRepo, checker *stubChecker) *Service {
	if checker == nil {
		checker = &stubChecker{}
	}
	return NewService(repo, checker, passthroughTxManager{}, nopLogger{})
}

func TestReplaceWeeklyWindows(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	windows := []*domain.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		{DayOfWeek: 0, IsActive: false},
	}

	require.NoError(t, svc.ReplaceWeeklyWindows(context.Background(), windows))
	assert.Len(t, repo.windows, 3)

	// Replaying the same set is a no-op in effect.
	require.NoError(t, svc.ReplaceWeeklyWindows(context.Background(), windows))
	assert.Len(t, repo.windows, 3)
}

func TestReplaceWeeklyWindows_Validation(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	tests := []struct {
		name    string
		windows []*domain.AvailabilityWindow
	}{
		{
			name:    "day out of range",
			windows: []*domain.AvailabilityWindow{{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00", IsActive: true}},
		},
		{
			name: "duplicate day",
			windows: []*domain.AvailabilityWindow{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
				{DayOfWeek: 1, StartTime: "10:00", EndTime: "18:00", IsActive: true},
			},
		},
		{
			name:    "start not before end",
			windows: []*domain.AvailabilityWindow{{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", IsActive: true}},
		},
		{
			name:    "malformed time",
			windows: []*domain.AvailabilityWindow{{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00", IsActive: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ReplaceWeeklyWindows(context.Background(), tt.windows)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpsertBookingType_Validation(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	tests := []struct {
		name string
		bt   *domain.BookingType
	}{
		{name: "empty name", bt: &domain.BookingType{Slug: "x", DurationMinutes: 30}},
		{name: "empty slug", bt: &domain.BookingType{Name: "X", DurationMinutes: 30}},
		{name: "duration too short", bt: &domain.BookingType{Name: "X", Slug: "x", DurationMinutes: 1}},
		{name: "negative buffer", bt: &domain.BookingType{Name: "X", Slug: "x", DurationMinutes: 30, BufferAfterMinutes: -5}},
		{name: "zero daily cap", bt: &domain.BookingType{Name: "X", Slug: "x", DurationMinutes: 30, MaxBookingsPerDay: ptr.Ptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertBookingType(context.Background(), tt.bt)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeleteBookingType_InUse(t *testing.T) {
	repo := newStubRepo()
	stored, err := repo.UpsertBookingType(context.Background(), &domain.BookingType{
		Name: "Custom cake pickup", Slug: "custom-cake-pickup", DurationMinutes: 15, IsActive: true,
	})
	require.NoError(t, err)

	svc := newTestService(repo, &stubChecker{inUse: true})
	err = svc.DeleteBookingType(context.Background(), stored.ID)
	assert.ErrorIs(t, err, ErrTypeInUse)

	// Still present.
	_, err = repo.GetBookingTypeByID(context.Background(), stored.ID)
	assert.NoError(t, err)
}

func TestDeleteBookingType_NotFound(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)
	err := svc.DeleteBookingType(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingTypeNotFound)
}

func TestAddOverride_Duplicate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	date := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	blocked := &domain.AvailabilityOverride{Date: date, IsAvailable: false, Reason: ptr.Ptr("closed for holidays")}

	_, err := svc.AddOverride(context.Background(), blocked)
	require.NoError(t, err)

	_, err = svc.AddOverride(context.Background(), blocked)
	assert.ErrorIs(t, err, ErrDuplicateOverride)
}

func TestAddOverride_AvailableRequiresHours(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	date := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	_, err := svc.AddOverride(context.Background(), &domain.AvailabilityOverride{
		Date:        date,
		IsAvailable: true, // no hours given
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	start := types.TimeString("10:00")
	end := types.TimeString("14:00")
	stored, err := svc.AddOverride(context.Background(), &domain.AvailabilityOverride{
		Date:        date,
		IsAvailable: true,
		StartTime:   &start,
		EndTime:     &end,
	})
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
}

func TestGetOverridesInRange_InvalidRange(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	start := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetOverridesInRange(context.Background(), start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
