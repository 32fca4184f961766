package reserve_slot

import (
	"context"
	"sync"
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

// stubLedger mimics the conditional-update claim: mutex-guarded so the
// concurrency test exercises real contention.
type stubLedger struct {
	mu      sync.Mutex
	entries map[string]*domain.SlotLedgerEntry
}

func newStubLedger() *stubLedger {
	return &stubLedger{entries: map[string]*domain.SlotLedgerEntry{}}
}

func ledgerKey(date time.Time, t types.TimeString) string {
	return date.Format(domain.DateFormat) + "T" + t.String()
}

func (s *stubLedger) Reserve(ctx context.Context, date time.Time, slotTime types.TimeString, defaultCapacity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ledgerKey(date, slotTime)
	e, ok := s.entries[key]
	if !ok {
		e = &domain.SlotLedgerEntry{Date: date, Time: slotTime, Capacity: defaultCapacity}
		s.entries[key] = e
	}
	if e.Booked >= e.Capacity {
		return false, nil
	}
	e.Booked++
	return true, nil
}

func (s *stubLedger) Release(ctx context.Context, date time.Time, slotTime types.TimeString) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[ledgerKey(date, slotTime)]; ok && e.Booked > 0 {
		e.Booked--
	}
	return nil
}

func (s *stubLedger) booked(date time.Time, slotTime types.TimeString) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[ledgerKey(date, slotTime)]; ok {
		return e.Booked
	}
	return 0
}

type stubReservations struct {
	mu      sync.Mutex
	created []*domain.Reservation
	nextID  int64
}

func (s *stubReservations) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *res
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.created = append(s.created, &stored)
	return &stored, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

func pickupType() *domain.BookingType {
	return &domain.BookingType{
		ID:              1,
		Name:            "Custom cake pickup",
		Slug:            "custom-cake-pickup",
		DurationMinutes: 15,
		IsActive:        true,
	}
}

type fixture struct {
	uc           *UseCase
	ledger       *stubLedger
	reservations *stubReservations
}

func newFixture(capacity int) *fixture {
	ledger := newStubLedger()
	reservations := &stubReservations{}
	rules := &stubRuleStore{types: map[string]*domain.BookingType{
		"custom-cake-pickup": pickupType(),
	}}
	resolver := &stubResolver{
		bookable: true,
		hours:    &domain.DayHours{Start: "09:00", End: "17:00"},
	}

	uc := NewUseCase(rules, resolver, ledger, reservations, passthroughTxManager{}, capacity, nopLogger{}).
		WithTimeProvider(&fixedTime{now: testNow})

	return &fixture{uc: uc, ledger: ledger, reservations: reservations}
}

func TestExecute_HappyPath(t *testing.T) {
	f := newFixture(1)
	date := testNow.AddDate(0, 0, 2)

	resp, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug:  "custom-cake-pickup",
		Date:      date,
		StartTime: "10:00",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, "custom-cake-pickup", resp.TypeSlug)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 15, resp.DurationMinutes)
	assert.Equal(t, 1, f.ledger.booked(date, "10:00"))
	require.Len(t, f.reservations.created, 1)
}

func TestExecute_RequiresApproval(t *testing.T) {
	f := newFixture(1)
	approvalType := pickupType()
	approvalType.RequiresApproval = true
	f.uc.rules.(*stubRuleStore).types["custom-cake-pickup"] = approvalType

	resp, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug:  "custom-cake-pickup",
		Date:      testNow.AddDate(0, 0, 2),
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPendingApproval), resp.Status)
}

func TestExecute_SlotFull(t *testing.T) {
	f := newFixture(1)
	date := testNow.AddDate(0, 0, 2)

	_, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: date, StartTime: "10:00",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: date, StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1, f.ledger.booked(date, "10:00"))
}

func TestExecute_UnknownType(t *testing.T) {
	f := newFixture(1)

	_, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug: "dog-grooming", Date: testNow.AddDate(0, 0, 2), StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrUnknownBookingType)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(1)

	_, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: testNow.AddDate(0, 0, -1), StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvalidSlotTime(t *testing.T) {
	f := newFixture(1)
	date := testNow.AddDate(0, 0, 2)

	// 10:07 is not on the 15-minute grid starting 09:00.
	_, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: date, StartTime: "10:07",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// A slot starting exactly at closing time is rejected too.
	_, err = f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: date, StartTime: "17:00",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_DateNotBookable(t *testing.T) {
	f := newFixture(1)
	f.uc.resolver.(*stubResolver).bookable = false

	_, err := f.uc.Execute(context.Background(), &Request{
		TypeSlug: "custom-cake-pickup", Date: testNow.AddDate(0, 0, 2), StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

// Of N concurrent attempts on a capacity-K slot, exactly K succeed and the
// ledger never exceeds K.
func TestExecute_ConcurrentClaims(t *testing.T) {
	const (
		capacity = 3
		attempts = 25
	)

	f := newFixture(capacity)
	date := testNow.AddDate(0, 0, 2)

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				TypeSlug: "custom-cake-pickup", Date: date, StartTime: "10:00",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, unavailable := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrSlotUnavailable):
			unavailable++
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, unavailable)
	assert.Equal(t, capacity, f.ledger.booked(date, "10:00"))
	assert.Len(t, f.reservations.created, capacity)
}
