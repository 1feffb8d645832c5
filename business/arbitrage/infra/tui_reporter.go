package infra

import (
	"context"

	"github.com/0xmoleclub/gSwap/business/arbitrage/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
	"github.com/0xmoleclub/gSwap/pkg/ui"
)

// TUIReporter implements Reporter by forwarding pre-formatted events
// to the Bubble Tea program. Formatting happens here so the UI never
// touches domain types.
type TUIReporter struct {
	tokens *token.Registry
}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter(tokens *token.Registry) *TUIReporter {
	return &TUIReporter{tokens: tokens}
}

// ReportScan forwards a cycle summary.
func (r *TUIReporter) ReportScan(ctx context.Context, report *app.ScanReport) {
	msg := ui.ScanMsg{
		Cycle:       report.Cycle,
		Routes:      report.Routes,
		Simulations: report.Simulations,
		Viable:      report.Viable,
		Shortlisted: report.Shortlisted,
		Executed:    report.Executed,
		Duration:    report.Duration,
	}
	if report.Best != nil {
		msg.BestRoute = report.Best.Route.Describe(r.tokens)
		msg.BestNet = report.Best.NetProfit.String()
		msg.BestPercent = report.Best.ProfitPercent.StringFixed(4)
	}
	ui.Send(msg)
}

// ReportDecision forwards the opportunity and the oracle's verdict.
func (r *TUIReporter) ReportDecision(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) {
	route := opp.Route.Describe(r.tokens)

	start := opp.Route.Start()
	ui.Send(ui.OpportunityMsg{
		Route:         route,
		AmountIn:      displayAmount(r.tokens, start, opp.AmountIn),
		AmountOut:     displayAmount(r.tokens, start, opp.AmountOut),
		NetProfit:     opp.NetProfit.String(),
		ProfitPercent: opp.ProfitPercent.StringFixed(4),
		Score:         opp.Score,
		Viable:        opp.Viable,
	})
	ui.Send(ui.DecisionMsg{
		Route:      route,
		Execute:    decision.Execute,
		Confidence: decision.Confidence,
		Urgency:    decision.Urgency,
		Reasoning:  decision.Reasoning,
		Risks:      decision.Risks,
	})
}

// ReportExecution forwards the settlement outcome.
func (r *TUIReporter) ReportExecution(ctx context.Context, opp *domain.Opportunity, result *domain.TransactionResult) {
	msg := ui.ExecutionMsg{
		Route:        opp.Route.Describe(r.tokens),
		Success:      result.Success,
		SettlementID: result.SettlementID,
		Sequence:     result.Sequence,
		Error:        result.Error,
	}
	if result.RealizedProfit != nil {
		msg.RealizedProfit = result.RealizedProfit.String()
	}
	if result.Cost != nil {
		msg.Cost = result.Cost.String()
	}
	ui.Send(msg)
}
