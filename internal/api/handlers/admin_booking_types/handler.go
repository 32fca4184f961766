package admin_booking_types

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	rulesService "github.com/bakesbycoral/bakesbycoral-sub000/internal/service/rules"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidID          = "invalid booking type id"
	msgNotFound           = "booking type not found"
	msgTypeInUse          = "booking type has future reservations and cannot be deleted"
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

// HandleList GET /api/v1/admin/booking-types?includeInactive=true
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	bookingTypes, err := h.service.ListBookingTypes(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error("GET /admin/booking-types - failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := &BookingTypesResponse{BookingTypes: make([]BookingTypeModel, 0, len(bookingTypes))}
	for _, bt := range bookingTypes {
		resp.BookingTypes = append(resp.BookingTypes, FromDomain(bt))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpsert POST /api/v1/admin/booking-types
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req BookingTypeModel
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/booking-types - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	stored, err := h.service.UpsertBookingType(r.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, rulesService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /admin/booking-types - failed: slug=%s, error=%v", req.Slug, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/booking-types - stored: id=%d, slug=%s", stored.ID, stored.Slug)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(stored))
}

// HandleDelete DELETE /api/v1/admin/booking-types/{typeId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["typeId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteBookingType(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, rulesService.ErrBookingTypeNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, rulesService.ErrTypeInUse):
			h.logger.Warn("DELETE /admin/booking-types - type in use: id=%d", id)
			handlers.RespondConflict(w, msgTypeInUse)
		default:
			h.logger.Error("DELETE /admin/booking-types - failed: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/booking-types - deleted: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
