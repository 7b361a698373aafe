package journal

import (
	"context"
	"fmt"
	"time"

	"routenet/internal/config"
)

// Delivery is one committed transfer from a link into a sink.
type Delivery struct {
	ID       string
	RunID    string
	Tick     int
	Source   string
	Link     string
	Sink     string
	Target   string
	Resource string
	Units    int
}

// Journal records committed deliveries of one run.
type Journal interface {
	// Record appends a batch. A failed batch is not partially applied.
	Record(ctx context.Context, deliveries []Delivery) error
	// Totals returns delivered units per sink for the run.
	Totals(ctx context.Context) (map[string]int, error)
	Close() error
}

// Run identifies the run a journal is opened for.
type Run struct {
	ID        string
	Label     string
	StartedAt time.Time
}

// Open selects the backend named by cfg.Kind. Kind "none" returns nil.
func Open(ctx context.Context, cfg config.JournalConfig, run Run) (Journal, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "duckdb":
		return OpenDuckDB(ctx, cfg.Path, run)
	case "tigerbeetle":
		return OpenTigerBeetle(cfg.ClusterID, cfg.Addresses, run)
	}
	return nil, fmt.Errorf("journal: unsupported kind %q", cfg.Kind)
}

func validateBatch(deliveries []Delivery) error {
	for i, d := range deliveries {
		if d.Units <= 0 {
			return fmt.Errorf("journal: delivery %d has %d units", i, d.Units)
		}
		if d.Sink == "" || d.Link == "" {
			return fmt.Errorf("journal: delivery %d is missing link or sink", i)
		}
	}
	return nil
}
