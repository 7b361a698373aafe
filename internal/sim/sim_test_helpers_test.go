package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"routenet/internal/config"
	"routenet/internal/journal"
)

// chestNetwork feeds 4 ore per tick into a single 10-unit slot that loses
// one unit per tick.
const chestNetwork = `version: 1
links:
  - key: a
    position: {x: 0, y: 0, z: 0}
sinks:
  - key: chest
    slots: 1
    slot_limit: 10
    drain: 1
routes:
  - from: {link: a, side: west}
    via: {side: east}
    sink: chest
sources:
  - key: miner
    from: {link: a, side: west}
    resource: ore
    count: 4
`

// throttledNetwork moves at most 4 units per two-tick window.
const throttledNetwork = `version: 1
window_ticks: 2
tick_millis: 50
links:
  - key: a
    position: {x: 0, y: 0, z: 0}
    rate: "0.0625"
sinks:
  - key: chest
routes:
  - from: {link: a, side: west}
    via: {side: east}
    sink: chest
sources:
  - key: miner
    from: {link: a, side: west}
    resource: ore
    count: 3
`

// batchedNetwork exports whole batches of 8 through a link allowed 5 per
// window.
const batchedNetwork = `version: 1
links:
  - key: a
    position: {x: 0, y: 0, z: 0}
    rate: "0.078125"
    covers:
      - side: east
        kind: robotic_arm
        role: export
        strategy: transfer_exact
        quantity: 8
sinks:
  - key: chest
routes:
  - from: {link: a, side: west}
    via: {side: east}
    sink: chest
sources:
  - key: miner
    from: {link: a, side: west}
    resource: ore
    count: 10
`

var fixedStart = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func loadNetwork(t *testing.T, doc string) config.Config {
	t.Helper()
	cfg, err := config.LoadBytes([]byte(doc))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func fixedDeps(j journal.Journal) RunDependencies {
	return RunDependencies{
		RunID: func() string { return "run-1" },
		Now:   func() time.Time { return fixedStart },
		Journal: func(context.Context, journal.Run) (journal.Journal, error) {
			return j, nil
		},
	}
}

func mustSinkSummary(t *testing.T, summary Summary, key string) SinkSummary {
	t.Helper()
	sink, ok := summary.Sink(key)
	if !ok {
		t.Fatalf("missing sink %q in summary", key)
	}
	return sink
}

func mustSourceSummary(t *testing.T, summary Summary, key string) SourceSummary {
	t.Helper()
	source, ok := summary.Source(key)
	if !ok {
		t.Fatalf("missing source %q in summary", key)
	}
	return source
}

// failingJournal rejects every batch.
type failingJournal struct {
	closed bool
}

func (j *failingJournal) Record(context.Context, []journal.Delivery) error {
	return errors.New("disk full")
}

func (j *failingJournal) Totals(context.Context) (map[string]int, error) {
	return nil, nil
}

func (j *failingJournal) Close() error {
	j.closed = true
	return nil
}
