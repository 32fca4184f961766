package get_next_available_date

import (
	"errors"
	"net/http"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/api/handlers"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	rulesRepo "github.com/bakesbycoral/bakesbycoral-sub000/internal/infra/storage/rules"
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/schedule"
)

const (
	msgMissingType        = "query parameter 'type' is required"
	msgUnknownBookingType = "booking type not found"
	msgNoBookableDate     = "no bookable date within the scheduling horizon"
)

type Handler struct {
	rules     RuleStore
	scheduler Scheduler
	logger    Logger
}

func NewHandler(rules RuleStore, scheduler Scheduler, logger Logger) *Handler {
	return &Handler{
		rules:     rules,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Handle GET /api/v1/availability/next-date?type={slug}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeSlug := r.URL.Query().Get("type")
	if typeSlug == "" {
		handlers.RespondBadRequest(w, msgMissingType)
		return
	}

	bookingType, err := h.rules.GetBookingTypeBySlug(r.Context(), typeSlug)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrBookingTypeNotFound) {
			handlers.RespondNotFound(w, msgUnknownBookingType)
			return
		}
		h.logger.Error("GET /availability/next-date - failed to get booking type slug=%s: %v", typeSlug, err)
		handlers.RespondInternalError(w)
		return
	}
	if !bookingType.IsActive {
		handlers.RespondNotFound(w, msgUnknownBookingType)
		return
	}

	date, err := h.scheduler.NextAvailableDate(r.Context(), bookingType)
	if err != nil {
		if errors.Is(err, schedule.ErrNoBookableDate) {
			h.logger.Warn("GET /availability/next-date - no bookable date for type=%s", typeSlug)
			handlers.RespondNotFound(w, msgNoBookableDate)
			return
		}
		h.logger.Error("GET /availability/next-date - failed: type=%s, error=%v", typeSlug, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &NextAvailableDateResponse{
		Type: bookingType.Slug,
		Date: date.Format(domain.DateFormat),
	})
}
