// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OpportunityRow represents one simulated route in the list.
type OpportunityRow struct {
	Timestamp     string
	Route         string
	AmountIn      string
	NetProfit     string
	ProfitPercent string
	Score         float64
	Status        string
	Viable        bool
}

// OpportunitiesComponent renders the opportunities list.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
	offset  int
	visible int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
		visible: 8,
	}
}

// Add prepends a new opportunity to the list.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
	o.offset = 0
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
	o.offset = 0
}

// ScrollUp moves the view window toward newer rows.
func (o *OpportunitiesComponent) ScrollUp() {
	if o.offset > 0 {
		o.offset--
	}
}

// ScrollDown moves the view window toward older rows.
func (o *OpportunitiesComponent) ScrollDown() {
	if o.offset+o.visible < len(o.rows) {
		o.offset++
	}
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	if len(o.rows) == 0 {
		return "No opportunities detected yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	viableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	nonViableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render("OPPORTUNITIES") + "\n"
	result += fmt.Sprintf("  %-8s  %-34s  %10s  %10s  %8s  %6s  %s\n",
		"Time", "Route", "In", "Net", "Percent", "Score", "Status")
	result += dimStyle.Render("  "+strings.Repeat("─", 88)) + "\n"

	end := o.offset + o.visible
	if end > len(o.rows) {
		end = len(o.rows)
	}
	for _, row := range o.rows[o.offset:end] {
		statusStyle := viableStyle
		icon := "✓"
		if !row.Viable {
			statusStyle = nonViableStyle
			icon = "✗"
		}
		result += fmt.Sprintf("  %-8s  %-34s  %10s  %10s  %7s%%  %6.3f  %s %s\n",
			row.Timestamp,
			truncate(row.Route, 34),
			row.AmountIn,
			row.NetProfit,
			row.ProfitPercent,
			row.Score,
			icon,
			statusStyle.Render(row.Status),
		)
	}

	if len(o.rows) > o.visible {
		result += dimStyle.Render(fmt.Sprintf("  showing %d-%d of %d (↑↓ to scroll)",
			o.offset+1, end, len(o.rows)))
	}

	return result
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
