package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"routenet/internal/duckdb"
)

// DuckDB stores deliveries in a DuckDB database for later analysis.
type DuckDB struct {
	db    *sql.DB
	runID string
}

// OpenDuckDB opens or creates the database at path; an empty path keeps it
// in memory.
func OpenDuckDB(ctx context.Context, path string, run Run) (*DuckDB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: ping duckdb: %w", err)
	}
	return newDuckDB(ctx, db, run)
}

func newDuckDB(ctx context.Context, db *sql.DB, run Run) (*DuckDB, error) {
	if err := duckdb.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	if err := duckdb.InsertRun(ctx, db, run.ID, run.Label, run.StartedAt); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: %w", err)
	}
	return &DuckDB{db: db, runID: run.ID}, nil
}

func (j *DuckDB) Record(ctx context.Context, deliveries []Delivery) error {
	if err := validateBatch(deliveries); err != nil {
		return err
	}
	rows := make([]duckdb.DeliveryRow, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, duckdb.DeliveryRow{
			DeliveryID: d.ID,
			RunID:      j.runID,
			Tick:       d.Tick,
			SourceKey:  d.Source,
			LinkKey:    d.Link,
			SinkKey:    d.Sink,
			Target:     d.Target,
			Resource:   d.Resource,
			Units:      d.Units,
		})
	}
	return duckdb.InsertDeliveries(ctx, j.db, rows)
}

func (j *DuckDB) Totals(ctx context.Context) (map[string]int, error) {
	return duckdb.SinkTotals(ctx, j.db, j.runID)
}

func (j *DuckDB) Close() error {
	return j.db.Close()
}
