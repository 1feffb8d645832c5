package app

import (
	"context"
	"math/big"

	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
)

// Provider serves the market data read side: token and pool listings
// plus server-side route estimates.
type Provider interface {
	ListTokens(ctx context.Context) ([]domain.TokenInfo, error)
	ListPools(ctx context.Context) ([]domain.PoolSnapshot, error)
	PoolsForToken(ctx context.Context, symbol string) ([]domain.PoolSnapshot, error)
	RouteProfit(ctx context.Context, route []string, amountIn *big.Int) (*domain.RouteEstimate, error)
}
