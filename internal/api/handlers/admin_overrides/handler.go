package admin_overrides

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/rules"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidStart       = "invalid 'start' query parameter, expected YYYY-MM-DD"
	msgInvalidEnd         = "invalid 'end' query parameter, expected YYYY-MM-DD"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgInvalidID          = "invalid override id"
	msgNotFound           = "override not found"
	msgDuplicate          = "an override already exists for this date"
)

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

// HandleList GET /api/v1/admin/overrides?start={YYYY-MM-DD}&end={YYYY-MM-DD}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	overrides, err := h.service.GetOverridesInRange(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, rulesService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /admin/overrides - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &OverridesResponse{Overrides: make([]OverrideModel, 0, len(overrides))}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, FromDomain(o))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleAdd POST /api/v1/admin/overrides
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req OverrideModel
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/overrides - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	override, err := req.ToDomain()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	stored, err := h.service.AddOverride(r.Context(), override)
	if err != nil {
		switch {
		case errors.Is(err, rulesService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, rulesService.ErrDuplicateOverride):
			h.logger.Warn("POST /admin/overrides - duplicate: date=%s", req.Date)
			handlers.RespondConflict(w, msgDuplicate)
		default:
			h.logger.Error("POST /admin/overrides - failed: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/overrides - stored: id=%d, date=%s", stored.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(stored))
}

// HandleRemove DELETE /api/v1/admin/overrides/{overrideId}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["overrideId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.RemoveOverride(r.Context(), id); err != nil {
		if errors.Is(err, rulesService.ErrOverrideNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/overrides - failed: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/overrides - removed: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
