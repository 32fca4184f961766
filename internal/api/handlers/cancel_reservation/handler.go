package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	cancelReservation "github.com/bakesbycoral/bakesbycoral-sub000/internal/usecase/cancel_reservation"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/metrics"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date or time format"
)

type Handler struct {
	useCase CancelReservationUseCase
	metrics ReservationMetrics
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, m ReservationMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/cancel - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations/cancel - failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, cancelReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /reservations/cancel - failed: date=%s, time=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if h.metrics != nil && result.ReservationAffected {
		h.metrics.IncReservation(metrics.OutcomeCancelled)
	}
	h.logger.Info("POST /reservations/cancel - done: date=%s, time=%s, released=%t",
		req.Date, req.StartTime, result.Released)
	handlers.RespondJSON(w, http.StatusOK, &CancelReservationResponse{
		Released:            result.Released,
		ReservationAffected: result.ReservationAffected,
	})
}
