package ledger

import "errors"

var (
	// ErrEntryNotFound is returned when no ledger row exists for the slot.
	ErrEntryNotFound = errors.New("ledger.repository: slot ledger entry not found")

	// ErrBuildQuery is returned when SQL construction fails.
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery is returned when SQL execution fails.
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
