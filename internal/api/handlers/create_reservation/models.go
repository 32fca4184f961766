package create_reservation

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	reserveSlot "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/reserve_slot"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// CreateReservationRequest is the HTTP request model.
type CreateReservationRequest struct {
	Type      string  `json:"type"`
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "10:00"
	Notes     *string `json:"notes,omitempty"`
}

// ReservationResponse is the HTTP response model.
type ReservationResponse struct {
	Reference       string  `json:"reference"`
	Type            string  `json:"type"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP request, parsing date and time.
func (r *CreateReservationRequest) ToUseCaseRequest() (*reserveSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &reserveSlot.Request{
		TypeSlug:  r.Type,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *reserveSlot.Response) *ReservationResponse {
	return &ReservationResponse{
		Reference:       resp.Reference,
		Type:            resp.TypeSlug,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
