package admin_sync_ledger

import (
	"context"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/service/reservations/models"
)

// SyncService repairs ledger drift from the reservation records.
type SyncService interface {
	SyncLedger(ctx context.Context, start, end time.Time) (*models.SyncResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
