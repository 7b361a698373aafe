package report

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// newTable builds a static, unfocused table tall enough to show every row
// below the bordered header.
func newTable(columns []table.Column, rows []table.Row, noColor bool) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)
	t.SetStyles(tableStyles(noColor))
	return t
}

// tableStyles keeps the header styling and drops the cursor highlight, since
// nothing is selectable.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

func sinkColumns() []table.Column {
	return []table.Column{
		{Title: "Sink", Width: 16},
		{Title: "Delivered", Width: 10},
		{Title: "Drained", Width: 8},
		{Title: "Held", Width: 8},
		{Title: "Journaled", Width: 10},
	}
}

func sourceColumns() []table.Column {
	return []table.Column{
		{Title: "Source", Width: 16},
		{Title: "Offered", Width: 8},
		{Title: "Delivered", Width: 10},
		{Title: "Refused", Width: 8},
	}
}

func linkColumns() []table.Column {
	return []table.Column{
		{Title: "Link", Width: 16},
		{Title: "Window", Width: 8},
		{Title: "Ledger", Width: 48},
	}
}
