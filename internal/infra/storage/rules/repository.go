package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/psqlbuilder"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Repository is the calendar rule store: weekly availability windows,
// booking types and per-date overrides. Uniqueness (one window per weekday,
// one override per date, unique type slug) is enforced by schema constraints,
// not convention.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the rule store repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Weekly windows

// GetWeeklyWindows returns all configured weekly windows ordered by weekday.
func (r *Repository) GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_of_week",
		"start_time",
		"end_time",
		"is_active",
	).
		From("availability_windows").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// ReplaceWeeklyWindows replaces the whole weekly template. The caller is
// expected to run this inside a transaction so readers never observe a
// partially-updated week.
func (r *Repository) ReplaceWeeklyWindows(ctx context.Context, windows []*domain.AvailabilityWindow) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.GtOrEq{"day_of_week": domain.MinDayOfWeek}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_windows").
		Columns("day_of_week", "start_time", "end_time", "is_active")
	for _, w := range windows {
		insertBuilder = insertBuilder.Values(w.DayOfWeek, w.StartTime, w.EndTime, w.IsActive)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Booking types

var bookingTypeColumns = []string{
	"id",
	"name",
	"slug",
	"duration_minutes",
	"buffer_after_minutes",
	"max_bookings_per_day",
	"requires_approval",
	"is_active",
	"created_at",
	"updated_at",
}

// ListBookingTypes returns booking types ordered by name. Inactive types are
// included only when requested (admin views show them, pickers do not).
func (r *Repository) ListBookingTypes(ctx context.Context, includeInactive bool) ([]*domain.BookingType, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingTypeColumns...).
		From("booking_types").
		OrderBy("name ASC")
	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookingTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookingTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookingTypes := make([]*domain.BookingType, 0)
	for rows.Next() {
		bt, err := scanBookingType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBookingTypes - scan row: %v", ErrScanRow, err)
		}
		bookingTypes = append(bookingTypes, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookingTypes - rows error: %v", ErrScanRow, err)
	}

	return bookingTypes, nil
}

// GetBookingTypeByID fetches one booking type by primary key.
func (r *Repository) GetBookingTypeByID(ctx context.Context, id int64) (*domain.BookingType, error) {
	return r.getBookingType(ctx, squirrel.Eq{"id": id}, "GetBookingTypeByID")
}

// GetBookingTypeBySlug fetches one booking type by its unique slug.
func (r *Repository) GetBookingTypeBySlug(ctx context.Context, slug string) (*domain.BookingType, error) {
	return r.getBookingType(ctx, squirrel.Eq{"slug": slug}, "GetBookingTypeBySlug")
}

func (r *Repository) getBookingType(ctx context.Context, where squirrel.Eq, op string) (*domain.BookingType, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingTypeColumns...).
		From("booking_types").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	bt, err := scanBookingType(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking type: %v", ErrScanRow, op, err)
	}

	return bt, nil
}

// UpsertBookingType inserts the booking type or, when the slug already
// exists, updates that row in place. Returns the stored row.
func (r *Repository) UpsertBookingType(ctx context.Context, bt *domain.BookingType) (*domain.BookingType, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_types").
		Columns(
			"name",
			"slug",
			"duration_minutes",
			"buffer_after_minutes",
			"max_bookings_per_day",
			"requires_approval",
			"is_active",
		).
		Values(
			bt.Name,
			bt.Slug,
			bt.DurationMinutes,
			bt.BufferAfterMinutes,
			bt.MaxBookingsPerDay,
			bt.RequiresApproval,
			bt.IsActive,
		).
		Suffix(`ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			duration_minutes = EXCLUDED.duration_minutes,
			buffer_after_minutes = EXCLUDED.buffer_after_minutes,
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			requires_approval = EXCLUDED.requires_approval,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBookingType - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&bt.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertBookingType - execute upsert: %v", ErrExecQuery, err)
	}

	bt.CreatedAt = createdAt.Time
	bt.UpdatedAt = updatedAt.Time

	return bt, nil
}

// DeleteBookingType removes a booking type. Dependency checks (future
// reservations) belong to the service layer.
func (r *Repository) DeleteBookingType(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBookingType - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBookingType - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBookingType - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingTypeNotFound
	}

	return nil
}

// Overrides

var overrideColumns = []string{
	"id",
	"override_date",
	"is_available",
	"start_time",
	"end_time",
	"reason",
	"created_at",
}

// GetOverridesInRange returns overrides with start <= date <= end, ordered
// by date.
func (r *Repository) GetOverridesInRange(ctx context.Context, start, end time.Time) ([]*domain.AvailabilityOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("availability_overrides").
		Where(squirrel.GtOrEq{"override_date": start}).
		Where(squirrel.LtOrEq{"override_date": end}).
		OrderBy("override_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverridesInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverridesInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.AvailabilityOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverridesInRange - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverridesInRange - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// GetOverrideByDate fetches the override for an exact date, if any.
func (r *Repository) GetOverrideByDate(ctx context.Context, date time.Time) (*domain.AvailabilityOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("availability_overrides").
		Where(squirrel.Eq{"override_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrideByDate - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	o, err := scanOverride(row)
	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrideByDate - scan override: %v", ErrScanRow, err)
	}

	return o, nil
}

// AddOverride inserts a new per-date override. A second override for the
// same date fails with ErrDuplicateOverride; the caller must delete the
// existing one first.
func (r *Repository) AddOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns("override_date", "is_available", "start_time", "end_time", "reason").
		Values(o.Date, o.IsAvailable, o.StartTime, o.EndTime, o.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateOverride
		}
		return nil, fmt.Errorf("%w: AddOverride - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time

	return o, nil
}

// RemoveOverride deletes an override by ID.
func (r *Repository) RemoveOverride(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveOverride - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// Scan helpers

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingType(row rowScanner) (*domain.BookingType, error) {
	var bt domain.BookingType
	var maxPerDay sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&bt.ID,
		&bt.Name,
		&bt.Slug,
		&bt.DurationMinutes,
		&bt.BufferAfterMinutes,
		&maxPerDay,
		&bt.RequiresApproval,
		&bt.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if maxPerDay.Valid {
		v := int(maxPerDay.Int64)
		bt.MaxBookingsPerDay = &v
	}
	bt.CreatedAt = createdAt.Time
	bt.UpdatedAt = updatedAt.Time

	return &bt, nil
}

func scanOverride(row rowScanner) (*domain.AvailabilityOverride, error) {
	var o domain.AvailabilityOverride
	var startTime, endTime, reason sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.Date,
		&o.IsAvailable,
		&startTime,
		&endTime,
		&reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if startTime.Valid {
		ts := types.TimeString(startTime.String)
		o.StartTime = &ts
	}
	if endTime.Valid {
		ts := types.TimeString(endTime.String)
		o.EndTime = &ts
	}
	if reason.Valid {
		o.Reason = &reason.String
	}
	o.CreatedAt = createdAt.Time

	return &o, nil
}

// isUniqueViolation detects Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
