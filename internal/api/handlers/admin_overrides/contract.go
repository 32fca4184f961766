package admin_overrides

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RulesService manages per-date overrides.
type RulesService interface {
	GetOverridesInRange(ctx context.Context, start, end time.Time) ([]*domain.AvailabilityOverride, error)
	AddOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	RemoveOverride(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
