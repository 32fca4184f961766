package rules

import "errors"

var (
	// ErrInvalidInput is returned for malformed admin input.
	ErrInvalidInput = errors.New("rules: invalid input data")

	// ErrBookingTypeNotFound is returned when the booking type does not exist.
	ErrBookingTypeNotFound = errors.New("rules: booking type not found")

	// ErrTypeInUse is returned when deleting a booking type that still has
	// future reservations.
	ErrTypeInUse = errors.New("rules: booking type has future reservations")

	// ErrOverrideNotFound is returned when the override does not exist.
	ErrOverrideNotFound = errors.New("rules: override not found")

	// ErrDuplicateOverride is returned when an override already exists for
	// the date; the existing one must be removed first.
	ErrDuplicateOverride = errors.New("rules: override already exists for date")

	// ErrInternal is returned on unexpected service failures.
	ErrInternal = errors.New("rules: internal error")
)
