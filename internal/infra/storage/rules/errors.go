package rules

import "errors"

var (
	// ErrBookingTypeNotFound is returned when a booking type does not exist.
	ErrBookingTypeNotFound = errors.New("rules.repository: booking type not found")

	// ErrOverrideNotFound is returned when an override does not exist.
	ErrOverrideNotFound = errors.New("rules.repository: override not found")

	// ErrDuplicateOverride is returned when an override already exists for the date.
	ErrDuplicateOverride = errors.New("rules.repository: override already exists for date")

	// ErrDuplicateSlug is returned when a booking type slug is already taken.
	ErrDuplicateSlug = errors.New("rules.repository: booking type slug already exists")

	// ErrBuildQuery is returned when SQL construction fails.
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery is returned when SQL execution fails.
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("rules.repository: failed to scan row")
)
