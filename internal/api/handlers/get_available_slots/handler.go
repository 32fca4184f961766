package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	getSlots "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/get_available_slots"
)

const (
	msgMissingType        = "query parameter 'type' is required"
	msgInvalidDate        = "invalid 'date' query parameter, expected YYYY-MM-DD"
	msgUnknownBookingType = "booking type not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/slots?type={slug}&date={YYYY-MM-DD}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeSlug := r.URL.Query().Get("type")
	if typeSlug == "" {
		handlers.RespondBadRequest(w, msgMissingType)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability/slots - invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		TypeSlug: typeSlug,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrUnknownBookingType):
			handlers.RespondNotFound(w, msgUnknownBookingType)
		case errors.Is(err, getSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /availability/slots - failed: type=%s, error=%v", typeSlug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
