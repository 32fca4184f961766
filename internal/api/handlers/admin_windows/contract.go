package admin_windows

import (
	"context"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// RulesService manages the weekly availability template.
type RulesService interface {
	GetWeeklyWindows(ctx context.Context) ([]*domain.AvailabilityWindow, error)
	ReplaceWeeklyWindows(ctx context.Context, windows []*domain.AvailabilityWindow) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
