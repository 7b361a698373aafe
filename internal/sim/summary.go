package sim

import (
	"time"

	"routenet/pkg/routing"
)

// Summary describes one finished run.
type Summary struct {
	RunID      string
	Label      string
	StartedAt  time.Time
	Ticks      int
	DryRun     bool
	Mismatches int
	Sources    []SourceSummary
	Sinks      []SinkSummary
	Links      []LinkSummary
	// Journaled holds per-sink totals read back from the journal, when one
	// was configured.
	Journaled map[string]int
}

// SourceSummary totals what one source offered and what came back.
type SourceSummary struct {
	Key       string
	Offered   int
	Delivered int
	Refused   int
}

// SinkSummary totals what reached one sink. Delivered counts committed units
// only, so it stays zero on a dry run.
type SinkSummary struct {
	Key       string
	Delivered int
	Drained   int
	Held      int
}

// LinkSummary is the end state of one link.
type LinkSummary struct {
	Key       string
	Committed int
	Ledger    []routing.LedgerEntry
}

// Delivered sums committed units over all sinks.
func (s Summary) Delivered() int {
	total := 0
	for _, sink := range s.Sinks {
		total += sink.Delivered
	}
	return total
}

// Refused sums units no route took over all sources.
func (s Summary) Refused() int {
	total := 0
	for _, source := range s.Sources {
		total += source.Refused
	}
	return total
}

// Sink returns the summary for key.
func (s Summary) Sink(key string) (SinkSummary, bool) {
	for _, sink := range s.Sinks {
		if sink.Key == key {
			return sink, true
		}
	}
	return SinkSummary{}, false
}

// Source returns the summary for key.
func (s Summary) Source(key string) (SourceSummary, bool) {
	for _, source := range s.Sources {
		if source.Key == key {
			return source, true
		}
	}
	return SourceSummary{}, false
}
