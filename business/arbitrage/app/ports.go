// Package app contains the arbitrage application services: route
// discovery, profit simulation, ranking, execution and the scan
// orchestrator.
package app

import (
	"context"
	"math/big"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// OracleClient consults the advisory decision service about one
// opportunity. Implementations must never block indefinitely and must
// resolve transport or parse failures to a conservative decision.
type OracleClient interface {
	Decide(ctx context.Context, opp *domain.Opportunity) (domain.Decision, error)
}

// SettlementEngine submits (or simulates) the settlement of an
// approved opportunity. Settlement failures are reported inside the
// TransactionResult; the error return is reserved for transport
// faults.
type SettlementEngine interface {
	Settle(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) (*domain.TransactionResult, error)
}

// BalanceSource reports the available balance of a token, used by the
// executor's preflight.
type BalanceSource interface {
	Balance(ctx context.Context, id token.ID) (*big.Int, error)
}

// Reporter publishes scan progress and outcomes to an output surface
// (console, TUI).
type Reporter interface {
	ReportScan(ctx context.Context, report *ScanReport)
	ReportDecision(ctx context.Context, opp *domain.Opportunity, decision domain.Decision)
	ReportExecution(ctx context.Context, opp *domain.Opportunity, result *domain.TransactionResult)
}
