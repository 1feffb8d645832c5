// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ExecutionRow represents one settlement attempt.
type ExecutionRow struct {
	Timestamp      string
	Route          string
	SettlementID   string
	Sequence       uint64
	RealizedProfit string
	Cost           string
	Success        bool
	Error          string
}

// ExecutionsComponent renders recent settlement attempts.
type ExecutionsComponent struct {
	rows    []ExecutionRow
	maxRows int
}

// NewExecutionsComponent creates a new executions component.
func NewExecutionsComponent(maxRows int) *ExecutionsComponent {
	return &ExecutionsComponent{
		rows:    make([]ExecutionRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a settlement attempt.
func (e *ExecutionsComponent) Add(row ExecutionRow) {
	e.rows = append([]ExecutionRow{row}, e.rows...)
	if len(e.rows) > e.maxRows {
		e.rows = e.rows[:e.maxRows]
	}
}

// View renders the executions component.
func (e *ExecutionsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render("EXECUTIONS") + "\n"

	if len(e.rows) == 0 {
		result += dimStyle.Render("  No settlements yet...")
		return result
	}

	result += fmt.Sprintf("  %-8s  %-4s  %-30s  %12s  %10s\n",
		"Time", "Seq", "Route", "Realized", "Cost")
	result += dimStyle.Render("  "+strings.Repeat("─", 72)) + "\n"

	for _, row := range e.rows {
		if row.Success {
			result += fmt.Sprintf("  %-8s  %-4d  %-30s  %s  %10s\n",
				row.Timestamp,
				row.Sequence,
				truncate(row.Route, 30),
				successStyle.Render(fmt.Sprintf("%12s", row.RealizedProfit)),
				row.Cost,
			)
			continue
		}
		result += fmt.Sprintf("  %-8s  %-4s  %-30s  %s\n",
			row.Timestamp,
			"-",
			truncate(row.Route, 30),
			failedStyle.Render(truncate(row.Error, 34)),
		)
	}

	return result
}
