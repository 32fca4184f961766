package get_calendar

import (
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations/models"
)

// CalendarResponse is the HTTP response model.
type CalendarResponse struct {
	Days []*models.DaySummary `json:"days"`
}
