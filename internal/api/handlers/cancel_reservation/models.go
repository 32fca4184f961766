package cancel_reservation

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	cancelReservation "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/cancel_reservation"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// CancelReservationRequest is the HTTP request model. Reference is optional;
// without it only the slot capacity is released.
type CancelReservationRequest struct {
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "10:00"
	Reference *string `json:"reference,omitempty"`
}

// CancelReservationResponse is the HTTP response model.
type CancelReservationResponse struct {
	Released            bool `json:"released"`
	ReservationAffected bool `json:"reservationAffected"`
}

// ToUseCaseRequest converts the HTTP request, parsing date and time.
func (r *CancelReservationRequest) ToUseCaseRequest() (*cancelReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &cancelReservation.Request{
		Date:      date,
		StartTime: startTime,
		Reference: r.Reference,
	}, nil
}
