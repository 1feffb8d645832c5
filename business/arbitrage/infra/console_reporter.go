// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/0xmoleclub/gSwap/business/arbitrage/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out    io.Writer
	tokens *token.Registry
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter(tokens *token.Registry) *ConsoleReporter {
	return &ConsoleReporter{
		out:    os.Stdout,
		tokens: tokens,
	}
}

// ReportScan outputs a one-line cycle summary.
func (r *ConsoleReporter) ReportScan(ctx context.Context, report *app.ScanReport) {
	fmt.Fprintf(r.out, "[%s] cycle #%d: %d routes, %d simulations, %d viable, %d executed (%s)\n",
		time.Now().Format("15:04:05"),
		report.Cycle, report.Routes, report.Simulations, report.Viable, report.Executed,
		report.Duration.Round(time.Millisecond))

	if report.Best != nil {
		fmt.Fprintf(r.out, "           best: %s  net %s (%s%%)\n",
			report.Best.Route.Describe(r.tokens),
			report.Best.NetProfit.String(),
			report.Best.ProfitPercent.StringFixed(4))
	}
}

// ReportDecision outputs the oracle's verdict for one opportunity.
func (r *ConsoleReporter) ReportDecision(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) {
	start := opp.Route.Start()
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Route:          %s\n", opp.Route.Describe(r.tokens))
	fmt.Fprintf(r.out, "Amount In:      %s\n", displayAmount(r.tokens, start, opp.AmountIn))
	fmt.Fprintf(r.out, "Amount Out:     %s\n", displayAmount(r.tokens, start, opp.AmountOut))
	fmt.Fprintf(r.out, "Net Profit:     %s (%s%%)\n", opp.NetProfit.String(), opp.ProfitPercent.StringFixed(4))
	fmt.Fprintf(r.out, "Est. Cost:      %s\n", opp.EstimatedCost.String())
	fmt.Fprintf(r.out, "Score:          %.4f\n", opp.Score)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "ORACLE DECISION")
	fmt.Fprintf(r.out, "  Execute:      %t\n", decision.Execute)
	fmt.Fprintf(r.out, "  Confidence:   %.2f\n", decision.Confidence)
	fmt.Fprintf(r.out, "  Urgency:      %s\n", decision.Urgency)
	if decision.Reasoning != "" {
		fmt.Fprintf(r.out, "  Reasoning:    %s\n", decision.Reasoning)
	}
	for _, risk := range decision.Risks {
		fmt.Fprintf(r.out, "  Risk:         %s\n", risk)
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// ReportExecution outputs the settlement outcome.
func (r *ConsoleReporter) ReportExecution(ctx context.Context, opp *domain.Opportunity, result *domain.TransactionResult) {
	if result.Success {
		fmt.Fprintf(r.out, "[%s] settled %s seq=%d realized=%s cost=%s\n",
			time.Now().Format("15:04:05"),
			result.SettlementID, result.Sequence,
			result.RealizedProfit.String(), result.Cost.String())
		return
	}
	fmt.Fprintf(r.out, "[%s] execution failed: %s\n", time.Now().Format("15:04:05"), result.Error)
}

// displayAmount renders a non-negative native amount in display units
// with its symbol; raw integers are the fallback for unknown tokens
// and negative values.
func displayAmount(tokens *token.Registry, id token.ID, raw *big.Int) string {
	if raw == nil {
		return "0"
	}
	if t, ok := tokens.Get(id); ok && raw.Sign() >= 0 {
		return token.NewAmount(t, raw).String()
	}
	return raw.String()
}
