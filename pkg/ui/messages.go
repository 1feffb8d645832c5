// Package ui provides the Bubble Tea TUI for the arbitrage engine.
package ui

import "time"

// Message types for TUI updates. All values arrive pre-formatted by
// the reporter; the UI displays them and calculates nothing.

// ScanMsg is sent after every completed scan cycle.
type ScanMsg struct {
	Cycle       uint64
	Routes      int
	Simulations int
	Viable      int
	Shortlisted int
	Executed    int
	Duration    time.Duration

	// Best-of-cycle figures; empty when no route was viable.
	BestRoute   string
	BestNet     string
	BestPercent string
}

// OpportunityMsg is sent when a shortlisted opportunity goes to the
// oracle.
type OpportunityMsg struct {
	Route         string
	AmountIn      string
	AmountOut     string
	NetProfit     string
	ProfitPercent string
	Score         float64
	Viable        bool
}

// DecisionMsg is sent with the oracle's verdict on an opportunity.
type DecisionMsg struct {
	Route      string
	Execute    bool
	Confidence float64
	Urgency    string
	Reasoning  string
	Risks      []string
}

// ExecutionMsg is sent after a settlement attempt completes.
type ExecutionMsg struct {
	Route          string
	Success        bool
	SettlementID   string
	Sequence       uint64
	RealizedProfit string
	Cost           string
	Error          string
}

// FeedStateMsg is sent when a data feed's connection state changes.
type FeedStateMsg struct {
	Name      string
	Connected bool
}

// StatusMsg carries the orchestrator's counter snapshot.
type StatusMsg struct {
	State              string
	Cycles             uint64
	RoutesDiscovered   uint64
	OpportunitiesFound uint64
	Executions         uint64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}
