package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"routenet/internal/config"
	"routenet/internal/logging"
	"routenet/internal/report"
	"routenet/internal/sim"
)

var runSimulation = sim.Run

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to network file (default: search for .routenet/network.yml)")
		ticks := fs.Int("ticks", 20, "Number of ticks to simulate")
		dryRun := fs.Bool("dry-run", false, "Only simulate offers; commit and journal nothing")
		verbose := fs.Int("verbose", logging.DEFAULT, "Log verbosity (0-3) written to stderr")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		label := fs.String("label", "", "Label stored with the run")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *ticks < 0 {
			fmt.Fprintf(stderr, "--ticks must be >= 0\n")
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to find config: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		summary, err := runSimulation(ctx, cfg, sim.RunParams{
			Ticks:  *ticks,
			DryRun: *dryRun,
			Label:  *label,
			Logger: logging.New(stderr, *verbose),
		})
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		styled := isTerminal(stdout)
		if err := report.Render(stdout, summary, report.Options{Styled: styled, NoColor: *noColor}); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		if summary.Mismatches > 0 {
			fmt.Fprintf(stderr, "Warning: %d offers simulated differently from how they executed\n", summary.Mismatches)
		}
		return ExitOK
	}
}
