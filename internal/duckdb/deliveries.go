package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DeliveryRow is one committed transfer into a sink.
type DeliveryRow struct {
	DeliveryID string
	RunID      string
	Tick       int
	SourceKey  string
	LinkKey    string
	SinkKey    string
	Target     string
	Resource   string
	Units      int
}

// InsertRun registers a run so its deliveries can reference it.
func InsertRun(ctx context.Context, db *sql.DB, runID, label string, startedAt time.Time) error {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	if runID == "" {
		return errors.New("duckdb: run id is required")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, label) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		runID, startedAt.UTC(), label)
	if err != nil {
		return fmt.Errorf("duckdb: insert run: %w", err)
	}
	return nil
}

// InsertDeliveries writes rows in one transaction.
func InsertDeliveries(ctx context.Context, db *sql.DB, rows []DeliveryRow) (err error) {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	if len(rows) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO deliveries
  (delivery_id, run_id, tick, source_key, link_key, sink_key, target, resource, units)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("duckdb: prepare delivery insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row.DeliveryID, row.RunID, row.Tick, row.SourceKey,
			row.LinkKey, row.SinkKey, row.Target, row.Resource, row.Units); err != nil {
			return fmt.Errorf("duckdb: insert delivery %s: %w", row.DeliveryID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: commit: %w", err)
	}
	return nil
}

// SinkTotals sums delivered units per sink for one run.
func SinkTotals(ctx context.Context, db *sql.DB, runID string) (map[string]int, error) {
	if db == nil {
		return nil, errors.New("duckdb: db is nil")
	}
	rows, err := db.QueryContext(ctx, `SELECT sink_key, units FROM v_sink_totals WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("duckdb: query sink totals: %w", err)
	}
	defer rows.Close()
	totals := map[string]int{}
	for rows.Next() {
		var sink string
		var units int64
		if err := rows.Scan(&sink, &units); err != nil {
			return nil, fmt.Errorf("duckdb: scan sink totals: %w", err)
		}
		totals[sink] = int(units)
	}
	return totals, rows.Err()
}
