package app

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	ammdomain "github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Simulator replays a route through the exact pool pricing formula
// without mutating reserves. Output accumulates hop by hop; a missing
// pool or drained reserve anywhere makes the whole route non-viable
// rather than raising an error.
type Simulator struct {
	pools  *ammapp.PoolRegistry
	tokens *token.Registry

	baseCost   decimal.Decimal
	perHopCost decimal.Decimal

	minProfitPercent decimal.Decimal
	referenceToken   token.ID
}

// SimulatorConfig holds the simulator's cost model and filters.
type SimulatorConfig struct {
	// BaseCost and PerHopCost model settlement cost as
	// base + perHop * hops, in display units of the start token.
	BaseCost   decimal.Decimal
	PerHopCost decimal.Decimal

	// MinProfitPercent filters dust-level opportunities before they
	// reach the ranker.
	MinProfitPercent decimal.Decimal

	// ReferenceToken values net profit in a common currency when a
	// direct pool to it exists.
	ReferenceToken token.ID
}

// NewSimulator creates a simulator over the given pool set.
func NewSimulator(pools *ammapp.PoolRegistry, tokens *token.Registry, cfg SimulatorConfig) *Simulator {
	return &Simulator{
		pools:            pools,
		tokens:           tokens,
		baseCost:         cfg.BaseCost,
		perHopCost:       cfg.PerHopCost,
		minProfitPercent: cfg.MinProfitPercent,
		referenceToken:   cfg.ReferenceToken,
	}
}

// Simulate walks the route with amountIn of the start token and
// derives the full profitability picture.
func (s *Simulator) Simulate(route domain.Route, amountIn *big.Int) *domain.Opportunity {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return domain.NonViable(route, big.NewInt(0))
	}

	amount := new(big.Int).Set(amountIn)
	for i := 0; i < route.Hops(); i++ {
		in, out := route.Hop(i)
		pool, ok := s.pools.Get(in, out)
		if !ok {
			return domain.NonViable(route, amountIn)
		}

		reserveIn, reserveOut, err := pool.ReservesFor(in)
		if err != nil || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
			return domain.NonViable(route, amountIn)
		}

		// Identical formula and truncation order as the pool's own
		// swap path.
		amount, err = ammdomain.QuoteOutput(amount, reserveIn, reserveOut, pool.FeeBps())
		if err != nil || amount.Sign() == 0 {
			return domain.NonViable(route, amountIn)
		}
	}

	gross := new(big.Int).Sub(amount, amountIn)
	cost := s.estimateCost(route)
	net := new(big.Int).Sub(gross, cost)

	profitPct := decimal.NewFromBigInt(gross, 0).
		Div(decimal.NewFromBigInt(amountIn, 0)).
		Mul(decimal.NewFromInt(100))

	opp := &domain.Opportunity{
		Route:           route,
		AmountIn:        new(big.Int).Set(amountIn),
		AmountOut:       amount,
		GrossProfit:     gross,
		ProfitPercent:   profitPct,
		EstimatedCost:   cost,
		NetProfit:       net,
		ReferenceProfit: s.referenceValue(route.Start(), net),
		Viable:          amount.Cmp(amountIn) > 0 && net.Sign() > 0,
		DiscoveredAt:    time.Now().UTC(),
	}
	return opp
}

// estimateCost models settlement cost as base + perHop * hops,
// converted from display units to the start token's native units with
// truncation.
func (s *Simulator) estimateCost(route domain.Route) *big.Int {
	cost := s.perHopCost.Mul(decimal.NewFromInt(int64(route.Hops()))).Add(s.baseCost)
	if t, ok := s.tokens.Get(route.Start()); ok {
		cost = cost.Shift(int32(t.Decimals()))
	}
	return cost.Floor().BigInt()
}

// MeetsFloor reports whether the opportunity clears the configured
// minimum profit percentage.
func (s *Simulator) MeetsFloor(opp *domain.Opportunity) bool {
	return opp.Viable && opp.ProfitPercent.GreaterThanOrEqual(s.minProfitPercent)
}

// referenceValue prices net profit in the reference token using the
// direct pool's spot quote; zero when no pricing path exists.
func (s *Simulator) referenceValue(start token.ID, net *big.Int) decimal.Decimal {
	if net.Sign() <= 0 {
		return decimal.Zero
	}

	refToken, ok := s.tokens.Get(s.referenceToken)
	if !ok {
		return decimal.Zero
	}
	if start.Equals(s.referenceToken) {
		return decimal.NewFromBigInt(net, -int32(refToken.Decimals()))
	}

	pool, ok := s.pools.Get(start, s.referenceToken)
	if !ok {
		return decimal.Zero
	}
	valued, err := pool.Quote(start, net)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(valued, -int32(refToken.Decimals()))
}
