package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/bubbles/table"

	"routenet/internal/sim"
	"routenet/pkg/routing"
)

func headerLine(summary sim.Summary) string {
	line := "Run " + summary.RunID
	if summary.Label != "" {
		line += " | " + summary.Label
	}
	line += " | Ticks: " + strconv.Itoa(summary.Ticks)
	if summary.DryRun {
		line += " | dry run"
	}
	return line
}

func totalsLine(summary sim.Summary) string {
	return fmt.Sprintf("Delivered: %d Refused: %d Mismatches: %d",
		summary.Delivered(), summary.Refused(), summary.Mismatches)
}

func mismatchLine(summary sim.Summary) string {
	return fmt.Sprintf("%d offers simulated differently from how they executed", summary.Mismatches)
}

func sinkRows(summary sim.Summary) []table.Row {
	rows := make([]table.Row, 0, len(summary.Sinks))
	for _, sink := range summary.Sinks {
		rows = append(rows, table.Row{
			sink.Key,
			strconv.Itoa(sink.Delivered),
			strconv.Itoa(sink.Drained),
			strconv.Itoa(sink.Held),
			formatJournaled(summary, sink.Key),
		})
	}
	return rows
}

func sourceRows(summary sim.Summary) []table.Row {
	rows := make([]table.Row, 0, len(summary.Sources))
	for _, source := range summary.Sources {
		rows = append(rows, table.Row{
			source.Key,
			strconv.Itoa(source.Offered),
			strconv.Itoa(source.Delivered),
			strconv.Itoa(source.Refused),
		})
	}
	return rows
}

func linkRows(summary sim.Summary) []table.Row {
	rows := make([]table.Row, 0, len(summary.Links))
	for _, link := range summary.Links {
		rows = append(rows, table.Row{
			link.Key,
			strconv.Itoa(link.Committed),
			formatLedger(link.Ledger),
		})
	}
	return rows
}

// formatJournaled is blank when no journal was configured.
func formatJournaled(summary sim.Summary, sink string) string {
	if summary.Journaled == nil {
		return ""
	}
	return strconv.Itoa(summary.Journaled[sink])
}

// formatLedger renders entries as target=total pairs.
func formatLedger(entries []routing.LedgerEntry) string {
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.Key.String()+"="+strconv.Itoa(entry.Total))
	}
	return strings.Join(parts, " ")
}

func renderPlain(w io.Writer, summary sim.Summary) error {
	fmt.Fprintln(w, headerLine(summary))
	fmt.Fprintln(w, totalsLine(summary))
	sections := []struct {
		columns []table.Column
		rows    []table.Row
	}{
		{sinkColumns(), sinkRows(summary)},
		{sourceColumns(), sourceRows(summary)},
		{linkColumns(), linkRows(summary)},
	}
	for _, section := range sections {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		titles := make([]string, 0, len(section.columns))
		for _, column := range section.columns {
			titles = append(titles, column.Title)
		}
		fmt.Fprintln(tw, strings.Join(titles, "\t"))
		for _, row := range section.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if summary.Mismatches > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, mismatchLine(summary))
	}
	return nil
}
