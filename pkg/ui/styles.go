// Package ui provides the Bubble Tea TUI for the arbitrage engine.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Teal for the engine chrome, green/red for profit and loss,
// amber for anything stale or paused.
var (
	ColorAccent = lipgloss.Color("#14B8A6")
	ColorProfit = lipgloss.Color("#22C55E")
	ColorLoss   = lipgloss.Color("#F43F5E")
	ColorStale  = lipgloss.Color("#EAB308")
	ColorDim    = lipgloss.Color("#64748B")
	ColorFrame  = lipgloss.Color("#334155")
)

var (
	// PanelStyle frames each section of the dashboard.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFrame).
			Padding(0, 1)

	// TitleStyle renders the top banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8FAFC")).
			Background(ColorAccent).
			Padding(0, 2)

	// Feed state indicators in the status bar.
	StatusConnected = lipgloss.NewStyle().
			Foreground(ColorProfit).
			Bold(true)

	StatusDisconnected = lipgloss.NewStyle().
				Foreground(ColorLoss).
				Bold(true)

	// Inline value styles.
	ProfitText = lipgloss.NewStyle().Foreground(ColorProfit)
	LossText   = lipgloss.NewStyle().Foreground(ColorLoss)
	DimText    = lipgloss.NewStyle().Foreground(ColorDim)

	// HelpStyle renders the key hint line at the bottom.
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Padding(0, 1)
)
