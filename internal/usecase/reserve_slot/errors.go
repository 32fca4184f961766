package reserve_slot

import "errors"

var (
	// ErrInvalidInput is returned for malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate is returned when the date is unparsable or in the past.
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrUnknownBookingType is returned when the slug matches no active type.
	ErrUnknownBookingType = errors.New("unknown booking type")

	// ErrInvalidTimeSlot is returned when the requested time is not one of the
	// slots generated for the day's hours.
	ErrInvalidTimeSlot = errors.New("requested time is not a valid slot")

	// ErrSlotUnavailable is returned when the date is not bookable or the slot
	// has no remaining capacity.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInternal is returned on unexpected failures.
	ErrInternal = errors.New("internal error")
)
