// Package domain contains the market data read models: token and pool
// snapshots as served by the indexer query surface.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// TokenInfo describes one tradeable token.
type TokenInfo struct {
	Symbol   string
	Name     string
	Address  string
	Decimals uint8
}

// PoolSnapshot is a point-in-time view of one pool's state. Reserves
// are native units in canonical token order.
type PoolSnapshot struct {
	Pair      string
	Token0    string
	Token1    string
	Reserve0  *big.Int
	Reserve1  *big.Int
	FeeBps    int64
	UpdatedAt time.Time
}

// RouteEstimate is a server-side profitability estimate for a cyclic
// route, in native units of the start token.
type RouteEstimate struct {
	Route         []string
	AmountIn      *big.Int
	AmountOut     *big.Int
	ProfitPercent decimal.Decimal
}

// ReserveUpdate is one live reserve movement from the feed.
type ReserveUpdate struct {
	Pair     string
	Token0   string
	Token1   string
	Reserve0 *big.Int
	Reserve1 *big.Int
	Sequence uint64
	At       time.Time
}
