package admin_sync_ledger

// SyncLedgerRequest is the HTTP request model.
type SyncLedgerRequest struct {
	Start string `json:"start"` // "2026-09-01"
	End   string `json:"end"`   // "2026-09-30"
}
