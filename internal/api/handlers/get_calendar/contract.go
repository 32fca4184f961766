package get_calendar

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations/models"
)

// CalendarService builds day summaries for a date range.
type CalendarService interface {
	GetCalendar(ctx context.Context, start, end time.Time) ([]*models.DaySummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
