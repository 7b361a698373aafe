package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"routenet/internal/config"
	"routenet/internal/journal"
	"routenet/internal/sim"
)

// fixtureParams describes a DuckDB journal fixture: runs of one network.
type fixtureParams struct {
	Config string
	Out    string
	Runs   int
	Ticks  int
}

func main() {
	var params fixtureParams
	flag.StringVar(&params.Config, "config", "", "path to network YAML")
	flag.StringVar(&params.Out, "out", "", "output duckdb file path")
	flag.IntVar(&params.Runs, "runs", 3, "number of runs to journal")
	flag.IntVar(&params.Ticks, "ticks", 100, "ticks per run")
	flag.Parse()
	if params.Config == "" || params.Out == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <network.yml> --out <duckdb file> [--runs N] [--ticks N]")
		os.Exit(2)
	}
	cfg, err := config.Load(params.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(dirOf(params.Out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output dir: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := generateFixture(ctx, cfg, params); err != nil {
		fmt.Fprintf(os.Stderr, "generate fixture: %v\n", err)
		os.Exit(1)
	}
}

// generateFixture journals params.Runs simulations into a fresh database.
// Run IDs and start times are fixed so the file is reproducible.
func generateFixture(ctx context.Context, cfg config.Config, params fixtureParams) error {
	if err := removeIfExists(params.Out); err != nil {
		return err
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < params.Runs; i++ {
		runID := deterministicID("run", i)
		startedAt := base.Add(time.Duration(i) * time.Hour)
		summary, err := sim.Run(ctx, cfg, sim.RunParams{
			Ticks: params.Ticks,
			Label: fmt.Sprintf("fixture-%d", i),
			Deps: sim.RunDependencies{
				RunID: func() string { return runID },
				Now:   func() time.Time { return startedAt },
				Journal: func(ctx context.Context, run journal.Run) (journal.Journal, error) {
					return journal.OpenDuckDB(ctx, params.Out, run)
				},
			},
		})
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		fmt.Printf("run %s: %d delivered, %d refused\n", runID, summary.Delivered(), summary.Refused())
	}
	return nil
}
