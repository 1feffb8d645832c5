package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Opportunity is a simulated cyclic route with its profitability
// figures. Amounts are integers in native units of the route's start
// token; percentages and reference valuations use decimals at the
// boundary only.
type Opportunity struct {
	Route     Route
	AmountIn  *big.Int
	AmountOut *big.Int

	// GrossProfit = AmountOut - AmountIn; negative when the route
	// loses money before costs.
	GrossProfit   *big.Int
	ProfitPercent decimal.Decimal

	// EstimatedCost is the settlement cost estimate, linear in hop
	// count, in start-token units.
	EstimatedCost *big.Int
	NetProfit     *big.Int

	// ReferenceProfit is the net profit valued in the configured
	// reference token; zero when no direct pool can price it.
	ReferenceProfit decimal.Decimal

	Score  float64
	Viable bool

	DiscoveredAt time.Time
}

// NonViable builds the zero-output outcome used when a route cannot be
// walked (missing pool or drained reserve on some hop). This is a
// normal result, not an error.
func NonViable(route Route, amountIn *big.Int) *Opportunity {
	return &Opportunity{
		Route:           route,
		AmountIn:        new(big.Int).Set(amountIn),
		AmountOut:       new(big.Int),
		GrossProfit:     new(big.Int),
		ProfitPercent:   decimal.Zero,
		EstimatedCost:   new(big.Int),
		NetProfit:       new(big.Int),
		ReferenceProfit: decimal.Zero,
		Viable:          false,
		DiscoveredAt:    time.Now().UTC(),
	}
}
