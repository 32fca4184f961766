package get_available_slots

import "errors"

var (
	// ErrInvalidInput is returned for malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUnknownBookingType is returned when the slug matches no active type.
	ErrUnknownBookingType = errors.New("unknown booking type")

	// ErrInternal is returned on unexpected failures.
	ErrInternal = errors.New("internal error")
)
