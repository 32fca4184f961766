package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/metrics"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

// DB wraps *sql.DB and records query durations into prometheus.
// It satisfies txmanager.DBExecutor and txmanager.TxBeginner, so
// repositories and the transaction manager use it interchangeably
// with a plain *sql.DB.
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
	pool    string
}

// Wrap creates a metrics-recording wrapper around db.
func Wrap(db *sql.DB, m *metrics.Metrics, poolName string) *DB {
	return &DB{db: db, metrics: m, pool: poolName}
}

// WrapWithDefault wraps db and starts periodic connection-pool stats
// collection until stop is closed.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, poolName string, stop <-chan struct{}) *DB {
	wrapped := Wrap(db, m, poolName)
	go wrapped.collectPoolStats(stop)
	return wrapped
}

// ExecContext executes a statement, recording its duration.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), err != nil)
	return res, err
}

// QueryContext executes a query, recording its duration.
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), err != nil)
	return rows, err
}

// QueryRowContext executes a single-row query, recording its duration.
// Errors surface on Scan, so only the duration is observed here.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), false)
	return row
}

// BeginTx starts a transaction whose statements are also recorded.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (txmanager.TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &metricsTx{tx: tx, parent: d}, nil
}

func (d *DB) collectPoolStats(stop <-chan struct{}) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.DBPoolOpenConns.WithLabelValues(d.pool).Set(float64(stats.OpenConnections))
			d.metrics.DBPoolIdleConns.WithLabelValues(d.pool).Set(float64(stats.Idle))
			d.metrics.DBPoolInUseConns.WithLabelValues(d.pool).Set(float64(stats.InUse))
		}
	}
}

// metricsTx instruments statements executed inside a transaction.
type metricsTx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), err != nil)
	return res, err
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), err != nil)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.metrics.ObserveDBQuery(operationLabel(query), time.Since(start).Seconds(), false)
	return row
}

func (t *metricsTx) Commit() error {
	return t.tx.Commit()
}

func (t *metricsTx) Rollback() error {
	return t.tx.Rollback()
}

// operationLabel classifies a statement by its leading keyword to keep
// metric cardinality bounded.
func operationLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "other"
	}
	switch strings.ToLower(fields[0]) {
	case "select", "insert", "update", "delete":
		return strings.ToLower(fields[0])
	default:
		return "other"
	}
}
