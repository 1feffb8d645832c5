// Package settlement submits approved opportunities for execution. The
// simulated engine settles against the in-process pools; a failed hop
// reverts every preceding one so no partial settlement survives.
package settlement

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	ammdomain "github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/apm"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

const settlementDeadline = 30 * time.Second

var tracer = apm.NewTracer("settlement")

// Wallet adjusts balances as settlements complete.
type Wallet interface {
	Credit(id token.ID, amount *big.Int)
	Debit(id token.ID, amount *big.Int) error
}

// SimulatedEngine executes the route's hops against the live pool set,
// applying the oracle's slippage bound per hop. Reserve movement
// between simulation and settlement surfaces as a slippage revert,
// exactly as a real settlement layer would report it.
type SimulatedEngine struct {
	pools  *ammapp.PoolRegistry
	wallet Wallet
	actor  string
	log    logger.LoggerInterface

	settled atomic.Uint64
}

// NewSimulatedEngine creates a settlement engine over the local pools.
func NewSimulatedEngine(pools *ammapp.PoolRegistry, wallet Wallet, actor string, log logger.LoggerInterface) *SimulatedEngine {
	if actor == "" {
		actor = "engine"
	}
	return &SimulatedEngine{
		pools:  pools,
		wallet: wallet,
		actor:  actor,
		log:    log,
	}
}

// Settle walks the route hop by hop with real swaps. The decision's
// slippage bound sets each hop's minimum output; any failure rolls
// back the completed hops with counter-swaps before reporting.
func (e *SimulatedEngine) Settle(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) (*domain.TransactionResult, error) {
	ctx, span := tracer.StartSpanFromContext(ctx, "settle")
	defer span.End()

	amountIn := opp.AmountIn
	if decision.AdjustedAmount != nil {
		amountIn = decision.AdjustedAmount
	}

	if err := e.wallet.Debit(opp.Route.Start(), amountIn); err != nil {
		return domain.Failed("wallet debit failed: " + err.Error()), nil
	}

	deadline := time.Now().Add(settlementDeadline)
	amount := new(big.Int).Set(amountIn)

	type completedHop struct {
		pool *ammdomain.Pool
		in   token.ID
		out  token.ID
		got  *big.Int
	}
	var completed []completedHop

	rollback := func() {
		// Undo in reverse order; rollback swaps pay the pool fee
		// again, the accepted price of aborting mid-route.
		for i := len(completed) - 1; i >= 0; i-- {
			h := completed[i]
			if _, err := h.pool.Swap(e.actor, h.out, h.got, nil, time.Now().Add(settlementDeadline)); err != nil {
				e.log.Error(context.Background(), "rollback swap failed",
					"pool", h.pool.Symbol(), "error", err)
			}
		}
		e.wallet.Credit(opp.Route.Start(), amountIn)
	}

	for i := 0; i < opp.Route.Hops(); i++ {
		if ctx.Err() != nil {
			rollback()
			return domain.Failed("settlement cancelled: " + ctx.Err().Error()), nil
		}

		in, out := opp.Route.Hop(i)
		pool, ok := e.pools.Get(in, out)
		if !ok {
			rollback()
			return domain.Failed(fmt.Sprintf("no pool for hop %d", i)), nil
		}

		minOut := hopMinimum(pool, in, amount, decision.MaxSlippageBps)
		got, err := pool.Swap(e.actor, in, amount, minOut, deadline)
		if err != nil {
			rollback()
			return domain.Failed(fmt.Sprintf("hop %d reverted on %s: %v", i, pool.Symbol(), err)), nil
		}

		completed = append(completed, completedHop{pool: pool, in: in, out: out, got: got})
		amount = got
	}

	e.wallet.Credit(opp.Route.Start(), amount)

	realized := new(big.Int).Sub(amount, amountIn)
	cost := new(big.Int).Set(opp.EstimatedCost)
	realized.Sub(realized, cost)

	e.settled.Add(1)
	result := &domain.TransactionResult{
		Success:        true,
		SettlementID:   fmt.Sprintf("sim-%d-%d", time.Now().UnixNano(), e.settled.Load()),
		Cost:           cost,
		RealizedProfit: realized,
		CompletedAt:    time.Now().UTC(),
	}

	e.log.Info(ctx, "settlement complete",
		"id", result.SettlementID,
		"realizedProfit", realized.String(),
		"cost", cost.String())

	return result, nil
}

// hopMinimum derives a hop's minimum acceptable output from the
// current quote and the decision's slippage budget.
func hopMinimum(pool *ammdomain.Pool, in token.ID, amount *big.Int, maxSlippageBps int64) *big.Int {
	quoted, err := pool.Quote(in, amount)
	if err != nil {
		return big.NewInt(0)
	}
	if maxSlippageBps <= 0 {
		return quoted
	}
	tolerance := decimal.NewFromBigInt(quoted, 0).
		Mul(decimal.NewFromInt(10000 - maxSlippageBps)).
		Div(decimal.NewFromInt(10000))
	return tolerance.Floor().BigInt()
}
