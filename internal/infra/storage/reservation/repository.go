package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/psqlbuilder"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"
)

// Repository stores confirmed reservation records. These rows back the
// per-type daily cap counts and serve as the authoritative source when the
// slot ledger needs drift repair.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the reservation repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var reservationColumns = []string{
	"id",
	"reference",
	"booking_type_id",
	"reservation_date",
	"start_time",
	"status",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create inserts a new reservation record.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns("reference", "booking_type_id", "reservation_date", "start_time", "status", "notes").
		Values(res.Reference, res.BookingTypeID, res.Date, res.StartTime, res.Status, res.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByReference fetches a reservation by its confirmation reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Reservation, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReference - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// CancelByReference marks a reservation cancelled. Cancelling twice returns
// ErrAlreadyCancelled so the caller can treat repeats as a no-op.
func (r *Repository) CancelByReference(ctx context.Context, reference string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"reference": reference}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelByReference - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelByReference - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelByReference - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Distinguish "never existed" from "already cancelled".
		if _, err := r.GetByReference(ctx, reference); err != nil {
			return err
		}
		return ErrAlreadyCancelled
	}

	return nil
}

// CountActiveByTypeAndDate counts non-cancelled reservations of one booking
// type on one date. Backs the per-type daily cap.
func (r *Repository) CountActiveByTypeAndDate(ctx context.Context, bookingTypeID int64, date time.Time) (int, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"booking_type_id": bookingTypeID, "reservation_date": date}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTypeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTypeAndDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveBySlotInRange returns per-slot counts of non-cancelled
// reservations with start <= date <= end. This is the authoritative fill
// level used to repair the ledger.
func (r *Repository) CountActiveBySlotInRange(ctx context.Context, start, end time.Time) ([]*domain.SlotBookedCount, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("reservation_date", "start_time", "COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"reservation_date": start}).
		Where(squirrel.LtOrEq{"reservation_date": end}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		GroupBy("reservation_date", "start_time").
		OrderBy("reservation_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlotInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlotInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]*domain.SlotBookedCount, 0)
	for rows.Next() {
		var c domain.SlotBookedCount
		if err := rows.Scan(&c.Date, &c.Time, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveBySlotInRange - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveBySlotInRange - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// HasActiveOnOrAfter reports whether a booking type still has non-cancelled
// reservations on or after the given date. Used to block type deletion.
func (r *Repository) HasActiveOnOrAfter(ctx context.Context, bookingTypeID int64, date time.Time) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{"booking_type_id": bookingTypeID}).
		Where(squirrel.GtOrEq{"reservation_date": date}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveOnOrAfter - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveOnOrAfter - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var notes sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.Reference,
		&res.BookingTypeID,
		&res.Date,
		&res.StartTime,
		&res.Status,
		&notes,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		res.Notes = &notes.String
	}
	if cancelledAt.Valid {
		res.CancelledAt = &cancelledAt.Time
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}
