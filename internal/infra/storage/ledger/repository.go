package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/psqlbuilder"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// Repository owns the slot_ledger table: the per-(date, time) booked count
// against capacity. It is the only place that mutates fill level.
//
// Both mutations are single conditional statements so the database engine's
// per-statement atomicity carries the invariant 0 <= booked <= capacity:
// two concurrent callers racing for the last opening cannot both increment.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the slot ledger repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve atomically takes one unit of capacity for the slot. The ledger row
// is created on first use with the supplied default capacity; creation is an
// upsert, so two simultaneous first bookings cannot produce duplicate rows.
// Returns false when the slot is already full.
func (r *Repository) Reserve(ctx context.Context, date time.Time, slotTime types.TimeString, defaultCapacity int) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("slot_ledger").
		Columns("slot_date", "slot_time", "capacity", "booked").
		Values(date, slotTime, defaultCapacity, 0).
		Suffix("ON CONFLICT (slot_date, slot_time) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return false, fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	updateQuery, updateArgs, err := psqlbuilder.Update("slot_ledger").
		Set("booked", squirrel.Expr("booked + 1")).
		Where(squirrel.Eq{"slot_date": date, "slot_time": slotTime}).
		Where(squirrel.Expr("booked < capacity")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// Release atomically returns one unit of capacity, floored at zero. Calling
// it on an empty or unknown slot is a no-op, so duplicate cancellation
// signals are harmless.
func (r *Repository) Release(ctx context.Context, date time.Time, slotTime types.TimeString) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_ledger").
		Set("booked", squirrel.Expr("booked - 1")).
		Where(squirrel.Eq{"slot_date": date, "slot_time": slotTime}).
		Where(squirrel.Expr("booked > 0")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// GetEntry fetches one ledger row.
func (r *Repository) GetEntry(ctx context.Context, date time.Time, slotTime types.TimeString) (*domain.SlotLedgerEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time", "capacity", "booked").
		From("slot_ledger").
		Where(squirrel.Eq{"slot_date": date, "slot_time": slotTime}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntry - build select query: %v", ErrBuildQuery, err)
	}

	var entry domain.SlotLedgerEntry
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.Date, &entry.Time, &entry.Capacity, &entry.Booked)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntry - scan entry: %v", ErrScanRow, err)
	}

	return &entry, nil
}

// GetCapacity returns the slot's configured capacity, or the supplied
// default when no row exists yet.
func (r *Repository) GetCapacity(ctx context.Context, date time.Time, slotTime types.TimeString, defaultCapacity int) (int, error) {
	entry, err := r.GetEntry(ctx, date, slotTime)
	if err == ErrEntryNotFound {
		return defaultCapacity, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Capacity, nil
}

// GetBooked returns the slot's booked count, zero when no row exists yet.
func (r *Repository) GetBooked(ctx context.Context, date time.Time, slotTime types.TimeString) (int, error) {
	entry, err := r.GetEntry(ctx, date, slotTime)
	if err == ErrEntryNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Booked, nil
}

// GetRange returns all ledger rows with start <= date <= end, ordered by
// date and time. Used by calendar rendering for capacity coloring.
func (r *Repository) GetRange(ctx context.Context, start, end time.Time) ([]*domain.SlotLedgerEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time", "capacity", "booked").
		From("slot_ledger").
		Where(squirrel.GtOrEq{"slot_date": start}).
		Where(squirrel.LtOrEq{"slot_date": end}).
		OrderBy("slot_date ASC, slot_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.SlotLedgerEntry, 0)
	for rows.Next() {
		var entry domain.SlotLedgerEntry
		if err := rows.Scan(&entry.Date, &entry.Time, &entry.Capacity, &entry.Booked); err != nil {
			return nil, fmt.Errorf("%w: GetRange - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRange - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// SetBooked overwrites a slot's booked count, clamped to [0, capacity].
// Only the sync repair path uses this; normal traffic goes through Reserve
// and Release.
func (r *Repository) SetBooked(ctx context.Context, date time.Time, slotTime types.TimeString, booked int) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_ledger").
		Set("booked", squirrel.Expr("LEAST(GREATEST(?, 0), capacity)", booked)).
		Where(squirrel.Eq{"slot_date": date, "slot_time": slotTime}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetBooked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetBooked - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// EnsureEntry creates a ledger row with the default capacity if none exists.
// Race-safe: concurrent calls collapse into one row.
func (r *Repository) EnsureEntry(ctx context.Context, date time.Time, slotTime types.TimeString, defaultCapacity int) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_ledger").
		Columns("slot_date", "slot_time", "capacity", "booked").
		Values(date, slotTime, defaultCapacity, 0).
		Suffix("ON CONFLICT (slot_date, slot_time) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: EnsureEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureEntry - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
