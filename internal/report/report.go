package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"routenet/internal/sim"
)

// Options controls how a summary is printed.
type Options struct {
	// Styled renders bubbles tables; otherwise plain aligned text is written.
	Styled  bool
	NoColor bool
}

// Render writes the summary of a run to w.
func Render(w io.Writer, summary sim.Summary, opts Options) error {
	var out string
	if opts.Styled {
		out = renderStyled(summary, opts.NoColor)
	} else {
		var builder strings.Builder
		if err := renderPlain(&builder, summary); err != nil {
			return err
		}
		out = builder.String()
	}
	_, err := io.WriteString(w, out)
	return err
}

func renderStyled(summary sim.Summary, noColor bool) string {
	parts := []string{
		stylize(headerLine(summary), noColor, lipgloss.Color("33")),
		stylize(totalsLine(summary), noColor, lipgloss.Color("242")),
		"",
		sectionTitle("Sinks", noColor),
		newTable(sinkColumns(), sinkRows(summary), noColor).View(),
		"",
		sectionTitle("Sources", noColor),
		newTable(sourceColumns(), sourceRows(summary), noColor).View(),
		"",
		sectionTitle("Links", noColor),
		newTable(linkColumns(), linkRows(summary), noColor).View(),
	}
	if summary.Mismatches > 0 {
		parts = append(parts, "", stylize(mismatchLine(summary), noColor, lipgloss.Color("196")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func sectionTitle(title string, noColor bool) string {
	if noColor {
		return title
	}
	return lipgloss.NewStyle().Bold(true).Render(title)
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
