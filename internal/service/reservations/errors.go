package reservations

import "errors"

var (
	// ErrInvalidInput is returned for malformed input.
	ErrInvalidInput = errors.New("reservations: invalid input data")

	// ErrInternal is returned on unexpected service failures.
	ErrInternal = errors.New("reservations: internal error")
)
