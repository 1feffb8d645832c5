// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds orchestrator counters for display.
type Stats struct {
	Cycles             uint64
	RoutesDiscovered   uint64
	OpportunitiesFound uint64
	Executions         uint64
	Errors             int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	hitRate := float64(0)
	if s.stats.RoutesDiscovered > 0 {
		hitRate = float64(s.stats.OpportunitiesFound) / float64(s.stats.RoutesDiscovered) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Cycles: %s  │  Routes: %s  │  Viable: %s (%.1f%%)\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Cycles)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.RoutesDiscovered)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.OpportunitiesFound)),
			hitRate,
		) +
		fmt.Sprintf("Executions: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executions)),
			errorsDisplay,
		)
}
