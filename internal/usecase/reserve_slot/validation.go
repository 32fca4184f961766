package reserve_slot

import (
	"fmt"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

func validateRequest(req *Request) error {
	if req.TypeSlug == "" {
		return fmt.Errorf("%w: booking type is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

func validateDate(date, now time.Time) error {
	day := dateOnly(date)
	if day.Before(dateOnly(now)) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
	}
	return nil
}

// isValidSlot checks the requested time against the slots generated for the
// day's hours with the type's step.
func isValidSlot(slots []types.TimeString, requested types.TimeString) bool {
	for _, s := range slots {
		if s == requested {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
