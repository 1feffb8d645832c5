package oracle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
)

// Heuristic is the local fallback used when no decision service is
// configured. It approves viable opportunities above the profit floor
// with confidence proportional to the margin, capped at 0.95 so a
// human-configured threshold of 1.0 still blocks everything.
type Heuristic struct {
	minProfitPercent decimal.Decimal
}

// NewHeuristic creates the local decision fallback.
func NewHeuristic(minProfitPercent decimal.Decimal) *Heuristic {
	return &Heuristic{minProfitPercent: minProfitPercent}
}

// Decide approves on margin alone; there is no external context to
// weigh, so risks always note the heuristic origin.
func (h *Heuristic) Decide(ctx context.Context, opp *domain.Opportunity) (domain.Decision, error) {
	if !opp.Viable || opp.ProfitPercent.LessThan(h.minProfitPercent) {
		return domain.Conservative("below profit floor"), nil
	}

	// Margin of 1% over the floor maps to full confidence.
	margin := opp.ProfitPercent.Sub(h.minProfitPercent)
	confidence, _ := margin.Float64()
	if confidence > 0.95 {
		confidence = 0.95
	}
	if confidence < 0.5 {
		confidence = 0.5
	}

	urgency := domain.UrgencyLow
	if opp.ProfitPercent.GreaterThan(h.minProfitPercent.Mul(decimal.NewFromInt(5))) {
		urgency = domain.UrgencyHigh
	} else if opp.ProfitPercent.GreaterThan(h.minProfitPercent.Mul(decimal.NewFromInt(2))) {
		urgency = domain.UrgencyMedium
	}

	return domain.Decision{
		Execute:        true,
		Confidence:     confidence,
		Reasoning:      fmt.Sprintf("heuristic approval: %s%% over floor", margin.StringFixed(4)),
		MaxSlippageBps: 100,
		Urgency:        urgency,
		Risks:          []string{"no external oracle configured; heuristic decision"},
	}, nil
}
