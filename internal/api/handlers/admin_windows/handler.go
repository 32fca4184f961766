package admin_windows

import (
	"errors"
	"net/http"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	rulesService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/rules"
)

const msgInvalidRequestBody = "invalid request body"

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/admin/schedule/windows
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	windows, err := h.service.GetWeeklyWindows(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/schedule/windows - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomain(windows))
}

// HandleReplace PUT /api/v1/admin/schedule/windows
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceWindowsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/windows - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ReplaceWeeklyWindows(r.Context(), req.ToDomain()); err != nil {
		if errors.Is(err, rulesService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("PUT /admin/schedule/windows - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedule/windows - replaced with %d windows", len(req.Windows))
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
