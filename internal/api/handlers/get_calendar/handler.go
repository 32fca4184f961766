package get_calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	reservationsService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations"
)

const (
	msgInvalidStart = "invalid 'start' query parameter, expected YYYY-MM-DD"
	msgInvalidEnd   = "invalid 'end' query parameter, expected YYYY-MM-DD"
	msgInvalidRange = "'end' must not be before 'start'"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar?start={YYYY-MM-DD}&end={YYYY-MM-DD}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(domain.DateFormat, r.URL.Query().Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}
	end, err := time.Parse(domain.DateFormat, r.URL.Query().Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEnd)
		return
	}

	days, err := h.service.GetCalendar(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, reservationsService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("GET /calendar - failed: start=%s, end=%s, error=%v",
			r.URL.Query().Get("start"), r.URL.Query().Get("end"), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CalendarResponse{Days: days})
}
