package get_available_slots

import (
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	getSlots "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/get_available_slots"
)

// SlotResponse is one offerable slot.
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// AvailableSlotsResponse is the HTTP response model.
type AvailableSlotsResponse struct {
	Date     string         `json:"date"`
	Type     string         `json:"type"`
	Bookable bool           `json:"bookable"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *getSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:     resp.Date.Format(domain.DateFormat),
		Type:     resp.TypeSlug,
		Bookable: resp.Bookable,
		Slots:    make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
			AvailableSpots:  s.AvailableSpots,
			TotalSpots:      s.TotalSpots,
		})
	}
	return out
}
