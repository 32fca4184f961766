package rules

import "github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"

// DBExecutor is the query surface the repository needs. Satisfied by
// *sql.DB, *sql.Tx and the dbmetrics wrappers.
type DBExecutor = txmanager.DBExecutor
