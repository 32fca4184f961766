package create_reservation

import (
	"errors"
	"net/http"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	reserveSlot "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/reserve_slot"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/metrics"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgUnknownBookingType = "booking type not found"
	msgSlotUnavailable    = "the selected slot is not available"
	msgInvalidTimeSlot    = "the requested time is not a valid slot"
)

type Handler struct {
	useCase ReserveSlotUseCase
	metrics ReservationMetrics
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, m ReservationMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - invalid request body: %v", err)
		h.incOutcome(metrics.OutcomeInvalidRequest)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - failed to parse request: %v", err)
		h.incOutcome(metrics.OutcomeInvalidRequest)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations - slot unavailable: type=%s, date=%s, time=%s",
				req.Type, req.Date, req.StartTime)
			h.incOutcome(metrics.OutcomeSlotUnavailable)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, reserveSlot.ErrUnknownBookingType):
			h.logger.Warn("POST /reservations - unknown booking type: type=%s", req.Type)
			h.incOutcome(metrics.OutcomeInvalidRequest)
			handlers.RespondNotFound(w, msgUnknownBookingType)

		case errors.Is(err, reserveSlot.ErrInvalidTimeSlot):
			h.incOutcome(metrics.OutcomeInvalidRequest)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, reserveSlot.ErrInvalidDate),
			errors.Is(err, reserveSlot.ErrInvalidInput):
			h.incOutcome(metrics.OutcomeInvalidRequest)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations - failed: type=%s, date=%s, error=%v",
				req.Type, req.Date, err)
			h.incOutcome(metrics.OutcomeError)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.incOutcome(result.Status)
	h.logger.Info("POST /reservations - reserved: ref=%s, type=%s, date=%s, time=%s",
		result.Reference, req.Type, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) incOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.IncReservation(outcome)
	}
}
