// Package memory implements the market data provider directly over the
// in-process pool registry, used in local simulation mode and tests.
package memory

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	ammdomain "github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Provider serves snapshots straight from the live registries, so the
// read side is always exactly as fresh as the pools themselves.
type Provider struct {
	pools  *ammapp.PoolRegistry
	tokens *token.Registry
}

// NewProvider creates a registry-backed provider.
func NewProvider(pools *ammapp.PoolRegistry, tokens *token.Registry) *Provider {
	return &Provider{pools: pools, tokens: tokens}
}

// ListTokens returns every registered token in insertion order.
func (p *Provider) ListTokens(ctx context.Context) ([]domain.TokenInfo, error) {
	all := p.tokens.All()
	out := make([]domain.TokenInfo, 0, len(all))
	for _, t := range all {
		out = append(out, domain.TokenInfo{
			Symbol:   t.Symbol(),
			Name:     t.Name(),
			Address:  t.ID().String(),
			Decimals: t.Decimals(),
		})
	}
	return out, nil
}

// ListPools snapshots every pool in creation order.
func (p *Provider) ListPools(ctx context.Context) ([]domain.PoolSnapshot, error) {
	pools := p.pools.All()
	out := make([]domain.PoolSnapshot, 0, len(pools))
	for _, pool := range pools {
		out = append(out, snapshot(pool))
	}
	return out, nil
}

// PoolsForToken snapshots the pools containing the given symbol.
func (p *Provider) PoolsForToken(ctx context.Context, symbol string) ([]domain.PoolSnapshot, error) {
	t, ok := p.tokens.GetBySymbol(symbol)
	if !ok {
		return nil, apperror.NotFound(apperror.CodeUnknownToken, symbol)
	}

	pools := p.pools.PoolsFor(t.ID())
	out := make([]domain.PoolSnapshot, 0, len(pools))
	for _, pool := range pools {
		out = append(out, snapshot(pool))
	}
	return out, nil
}

// RouteProfit walks the route with the pool pricing formula, exactly as
// the arbitrage simulator would, without touching reserves.
func (p *Provider) RouteProfit(ctx context.Context, route []string, amountIn *big.Int) (*domain.RouteEstimate, error) {
	if len(route) < 2 {
		return nil, apperror.Validation(apperror.CodeInvalidRoute, "route needs at least one hop")
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.Validation(apperror.CodeZeroAmount, "amountIn must be positive")
	}

	ids := make([]token.ID, 0, len(route))
	for _, symbol := range route {
		t, ok := p.tokens.GetBySymbol(symbol)
		if !ok {
			return nil, apperror.NotFound(apperror.CodeUnknownToken, symbol)
		}
		ids = append(ids, t.ID())
	}

	amount := new(big.Int).Set(amountIn)
	for i := 0; i < len(ids)-1; i++ {
		pool, ok := p.pools.Get(ids[i], ids[i+1])
		if !ok {
			return nil, apperror.NotFound(apperror.CodePoolNotFound, route[i]+"/"+route[i+1])
		}
		reserveIn, reserveOut, err := pool.ReservesFor(ids[i])
		if err != nil {
			return nil, err
		}
		amount, err = ammdomain.QuoteOutput(amount, reserveIn, reserveOut, pool.FeeBps())
		if err != nil {
			return nil, err
		}
	}

	profitPct := decimal.NewFromBigInt(new(big.Int).Sub(amount, amountIn), 0).
		Div(decimal.NewFromBigInt(amountIn, 0)).
		Mul(decimal.NewFromInt(100))

	return &domain.RouteEstimate{
		Route:         route,
		AmountIn:      new(big.Int).Set(amountIn),
		AmountOut:     amount,
		ProfitPercent: profitPct,
	}, nil
}

func snapshot(pool *ammdomain.Pool) domain.PoolSnapshot {
	r0, r1 := pool.Reserves()
	return domain.PoolSnapshot{
		Pair:      pool.Symbol(),
		Token0:    pool.Token0().Symbol(),
		Token1:    pool.Token1().Symbol(),
		Reserve0:  r0,
		Reserve1:  r1,
		FeeBps:    pool.FeeBps(),
		UpdatedAt: time.Now().UTC(),
	}
}
