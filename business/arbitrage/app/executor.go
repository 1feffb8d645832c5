package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// ExecutorConfig holds the execution gates.
type ExecutorConfig struct {
	// ConfidenceThreshold rejects oracle decisions below this level
	// even when the oracle says execute.
	ConfidenceThreshold float64

	// CostCeiling bounds the estimated settlement cost, in display
	// units of the start token.
	CostCeiling decimal.Decimal

	// MinProfitPercent is re-checked at preflight; reserves may have
	// moved since simulation.
	MinProfitPercent decimal.Decimal
}

// Executor gates approved opportunities through preflight checks and
// submits them to the settlement engine. A monotonic sequence counter
// orders successful submissions for traceability.
type Executor struct {
	wallet     BalanceSource
	settlement SettlementEngine
	tokens     *token.Registry
	cfg        ExecutorConfig
	log        logger.LoggerInterface

	sequence atomic.Uint64
}

// NewExecutor creates an executor.
func NewExecutor(wallet BalanceSource, settlement SettlementEngine, tokens *token.Registry, cfg ExecutorConfig, log logger.LoggerInterface) *Executor {
	return &Executor{
		wallet:     wallet,
		settlement: settlement,
		tokens:     tokens,
		cfg:        cfg,
		log:        log,
	}
}

// Preflight validates the opportunity against balance, cost and
// profit-floor constraints. Every failing check is accumulated so the
// report names all problems at once.
func (e *Executor) Preflight(ctx context.Context, opp *domain.Opportunity) domain.PreflightReport {
	var failures []string

	balance, err := e.wallet.Balance(ctx, opp.Route.Start())
	if err != nil {
		failures = append(failures, fmt.Sprintf("balance lookup failed: %v", err))
	} else if balance.Cmp(opp.AmountIn) < 0 {
		failures = append(failures, fmt.Sprintf("insufficient balance: have %s, need %s", balance, opp.AmountIn))
	}

	if e.cfg.CostCeiling.IsPositive() {
		ceiling := e.cfg.CostCeiling
		if t, ok := e.tokens.Get(opp.Route.Start()); ok {
			ceiling = ceiling.Shift(int32(t.Decimals()))
		}
		if decimal.NewFromBigInt(opp.EstimatedCost, 0).GreaterThan(ceiling) {
			failures = append(failures, fmt.Sprintf("estimated cost %s exceeds ceiling %s", opp.EstimatedCost, ceiling))
		}
	}

	if opp.ProfitPercent.LessThan(e.cfg.MinProfitPercent) {
		failures = append(failures, fmt.Sprintf("profit %s%% below floor %s%%", opp.ProfitPercent.StringFixed(4), e.cfg.MinProfitPercent))
	}

	return domain.PreflightReport{
		Passed: len(failures) == 0,
		Errors: failures,
	}
}

// Execute runs the decision gates, preflight, and settlement. It
// refuses immediately when the oracle said no or its confidence is
// below threshold; a preflight failure skips settlement entirely.
func (e *Executor) Execute(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) *domain.TransactionResult {
	if !decision.Execute {
		e.log.Info(ctx, "execution refused by oracle", "reason", decision.Reasoning)
		return domain.Failed("oracle decision: do not execute: " + decision.Reasoning)
	}
	if decision.Confidence < e.cfg.ConfidenceThreshold {
		e.log.Info(ctx, "execution refused on low confidence",
			"confidence", decision.Confidence,
			"threshold", e.cfg.ConfidenceThreshold)
		return domain.Failed(fmt.Sprintf("confidence %.2f below threshold %.2f",
			decision.Confidence, e.cfg.ConfidenceThreshold))
	}

	if report := e.Preflight(ctx, opp); !report.Passed {
		e.log.Warn(ctx, "preflight failed", "errors", report.Errors)
		return domain.Failed("preflight failed: " + joinReasons(report.Errors))
	}

	result, err := e.settlement.Settle(ctx, opp, decision)
	if err != nil {
		e.log.Error(ctx, "settlement transport fault", "error", err)
		return domain.Failed("settlement unavailable: " + err.Error())
	}
	if result.Success {
		result.Sequence = e.sequence.Add(1)
	}
	return result
}

// Sequence returns the count of successful settlements so far.
func (e *Executor) Sequence() uint64 {
	return e.sequence.Load()
}

func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}
