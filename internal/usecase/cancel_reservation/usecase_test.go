package cancel_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	reservationRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/reservation"
	reserveSlot "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/reserve_slot"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/ptr"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// stubLedger implements both the cancel and reserve ledger contracts so the
// end-to-end test can drive a full reserve / cancel / retry cycle.
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

// stubReservations implements both the cancel and reserve reservation
// contracts.
type stubReservations struct {
	mu     sync.Mutex
	byRef  map[string]*domain.Reservation
	nextID int64
}

func newStubReservations() *stubReservations {
	return &stubReservations{byRef: map[string]*domain.Reservation{}}
}

func (s *stubReservations) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *res
	stored.ID = s.nextID
	s.byRef[stored.Reference] = &stored
	return &stored, nil
}

func (s *stubReservations) CancelByReference(ctx context.Context, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.byRef[reference]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.Status == domain.StatusCancelled {
		return reservationRepo.ErrAlreadyCancelled
	}
	res.Status = domain.StatusCancelled
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var (
	testDate = time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	slotTime = types.TimeString("10:00")
)

func seedReservation(t *testing.T, reservations *stubReservations, ledger *stubLedger, ref string) {
	t.Helper()

	claimed, err := ledger.Reserve(context.Background(), testDate, slotTime, 1)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = reservations.Create(context.Background(), &domain.Reservation{
		Reference:     ref,
		BookingTypeID: 1,
		Date:          testDate,
		StartTime:     slotTime,
		Status:        domain.StatusConfirmed,
	})
	require.NoError(t, err)
}

func TestExecute_CancelWithReference(t *testing.T) {
	ledger := newStubLedger()
	reservations := newStubReservations()
	seedReservation(t, reservations, ledger, "ref-1")

	uc := NewUseCase(reservations, ledger, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date: testDate, StartTime: slotTime, Reference: ptr.Ptr("ref-1"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Released)
	assert.True(t, resp.ReservationAffected)
	assert.Equal(t, 0, ledger.booked(testDate, slotTime))
}

func TestExecute_DoubleCancelIsIdempotent(t *testing.T) {
	ledger := newStubLedger()
	reservations := newStubReservations()
	seedReservation(t, reservations, ledger, "ref-1")

	uc := NewUseCase(reservations, ledger, passthroughTxManager{}, nopLogger{})
	req := &Request{Date: testDate, StartTime: slotTime, Reference: ptr.Ptr("ref-1")}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Second cancel succeeds without touching the ledger again.
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Released)
	assert.False(t, resp.ReservationAffected)
	assert.Equal(t, 0, ledger.booked(testDate, slotTime))
}

func TestExecute_WithoutReferenceReleasesSlot(t *testing.T) {
	ledger := newStubLedger()
	reservations := newStubReservations()
	seedReservation(t, reservations, ledger, "ref-1")

	uc := NewUseCase(reservations, ledger, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate, StartTime: slotTime})
	require.NoError(t, err)
	assert.True(t, resp.Released)
	assert.False(t, resp.ReservationAffected)
	assert.Equal(t, 0, ledger.booked(testDate, slotTime))
}

func TestExecute_CancelFreeSlotIsNoOp(t *testing.T) {
	ledger := newStubLedger()
	uc := NewUseCase(newStubReservations(), ledger, passthroughTxManager{}, nopLogger{})

	// Never reserved; releasing must not drive the count negative.
	resp, err := uc.Execute(context.Background(), &Request{Date: testDate, StartTime: slotTime})
	require.NoError(t, err)
	assert.True(t, resp.Released)
	assert.Equal(t, 0, ledger.booked(testDate, slotTime))
}

// End to end: a capacity-1 slot is reserved, a second attempt fails, the
// first reservation is cancelled, and the retry succeeds.
func TestReserveCancelRetry(t *testing.T) {
	ledger := newStubLedger()
	reservations := newStubReservations()

	rules := &stubRuleStore{types: map[string]*domain.BookingType{
		"custom-cake-pickup": {
			ID: 1, Name: "Custom cake pickup", Slug: "custom-cake-pickup",
			DurationMinutes: 15, IsActive: true,
		},
	}}
	resolver := &stubResolver{
		bookable: true,
		hours:    &domain.DayHours{Start: "09:00", End: "17:00"},
	}

	reserveUC := reserveSlot.NewUseCase(
		rules, resolver, ledger, reservations, passthroughTxManager{}, 1, nopLogger{},
	).WithTimeProvider(&fixedTime{now: testDate.AddDate(0, 0, -2)})
	cancelUC := NewUseCase(reservations, ledger, passthroughTxManager{}, nopLogger{})

	reserveReq := &reserveSlot.Request{
		TypeSlug: "custom-cake-pickup", Date: testDate, StartTime: slotTime,
	}

	first, err := reserveUC.Execute(context.Background(), reserveReq)
	require.NoError(t, err)

	_, err = reserveUC.Execute(context.Background(), reserveReq)
	require.ErrorIs(t, err, reserveSlot.ErrSlotUnavailable)

	_, err = cancelUC.Execute(context.Background(), &Request{
		Date: testDate, StartTime: slotTime, Reference: &first.Reference,
	})
	require.NoError(t, err)

	retry, err := reserveUC.Execute(context.Background(), reserveReq)
	require.NoError(t, err)
	assert.NotEqual(t, first.Reference, retry.Reference)
	assert.Equal(t, 1, ledger.booked(testDate, slotTime))
}

type stubRuleStore struct {
	types map[string]*domain.BookingType
}

func (s *stubRuleStore) GetBookingTypeBySlug(ctx context.Context, slug string) (*domain.BookingType, error) {
	return s.types[slug], nil
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

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }
