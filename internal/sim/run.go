package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"routenet/internal/config"
	"routenet/internal/journal"
	"routenet/internal/network"
)

// JournalFactory opens the journal for a run.
type JournalFactory func(ctx context.Context, run journal.Run) (journal.Journal, error)

type RunDependencies struct {
	RunID   func() string
	Now     func() time.Time
	Journal JournalFactory
}

type RunParams struct {
	Ticks  int
	DryRun bool
	Label  string
	Logger logr.Logger
	Deps   RunDependencies
}

// Run builds the network described by cfg and steps it params.Ticks times.
// A dry run only simulates and never opens the journal.
func Run(ctx context.Context, cfg config.Config, params RunParams) (summary Summary, err error) {
	if params.Ticks < 0 {
		return Summary{}, fmt.Errorf("ticks must be >= 0, got %d", params.Ticks)
	}
	net, err := network.Build(cfg)
	if err != nil {
		return Summary{}, fmt.Errorf("build network: %w", err)
	}

	runID := uuid.NewString()
	if params.Deps.RunID != nil {
		runID = params.Deps.RunID()
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	startedAt := now().UTC()
	run := journal.Run{ID: runID, Label: params.Label, StartedAt: startedAt}

	var j journal.Journal
	if !params.DryRun {
		open := params.Deps.Journal
		if open == nil {
			open = func(ctx context.Context, run journal.Run) (journal.Journal, error) {
				return journal.Open(ctx, cfg.Journal, run)
			}
		}
		if j, err = open(ctx, run); err != nil {
			return Summary{}, fmt.Errorf("open journal: %w", err)
		}
		if j != nil {
			defer func() {
				if closeErr := j.Close(); closeErr != nil {
					err = errors.Join(err, fmt.Errorf("close journal: %w", closeErr))
				}
			}()
		}
	}

	runner := NewRunner(net, RunnerOptions{
		RunID:   runID,
		Clock:   network.NewTickClock(startedAt, net.TickStep),
		Logger:  params.Logger,
		Journal: j,
		DryRun:  params.DryRun,
	})
	for runner.Tick() < params.Ticks {
		if err := runner.Step(ctx); err != nil {
			return runner.Summary(), err
		}
	}

	summary = runner.Summary()
	summary.Label = params.Label
	summary.StartedAt = startedAt
	if j != nil {
		totals, err := j.Totals(ctx)
		if err != nil {
			return summary, fmt.Errorf("read journal totals: %w", err)
		}
		summary.Journaled = totals
	}
	return summary, nil
}
