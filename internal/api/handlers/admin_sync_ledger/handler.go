package admin_sync_ledger

import (
	"errors"
	"net/http"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	reservationsService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgInvalidRange       = "'end' must not be before 'start'"
)

type Handler struct {
	service SyncService
	logger  Logger
}

func NewHandler(service SyncService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/ledger/sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SyncLedgerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/ledger/sync - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	start, err := time.Parse(domain.DateFormat, req.Start)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	end, err := time.Parse(domain.DateFormat, req.End)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.SyncLedger(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, reservationsService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("POST /admin/ledger/sync - failed: start=%s, end=%s, error=%v",
			req.Start, req.End, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/ledger/sync - done: start=%s, end=%s, updated=%d, cleared=%d",
		req.Start, req.End, result.SlotsUpdated, result.SlotsCleared)
	handlers.RespondJSON(w, http.StatusOK, result)
}
