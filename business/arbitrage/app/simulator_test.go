package app

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// profitableTriangle holds an imbalanced fee-free cycle whose hop
// outputs are small enough to verify by hand:
//
//	100 GALA -> 90 GUSDC -> 82 GWETH -> 227 GALA
func profitableTriangle(t testing.TB, tokens *token.Registry) *Simulator {
	t.Helper()
	pools := seedPools(t, tokens, []poolSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		{a: token.GUSDCID, b: token.GWETHID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		{a: token.GWETHID, b: token.GALAID, reserveA: 1000, reserveB: 3000, feeBps: 0},
	})
	return NewSimulator(pools, tokens, SimulatorConfig{
		MinProfitPercent: decimal.RequireFromString("0.1"),
		ReferenceToken:   token.GUSDCID,
	})
}

func TestSimulateMultiHopReplay(t *testing.T) {
	tokens := flatRegistry()
	sim := profitableTriangle(t, tokens)
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	opp := sim.Simulate(route, big.NewInt(100))

	// hop1: 100*1000/1100 = 90, hop2: 90*1000/1090 = 82,
	// hop3: 82*3000/1082 = 227. Each hop floors.
	if got := opp.AmountOut.Int64(); got != 227 {
		t.Fatalf("AmountOut = %d, want 227", got)
	}
	if got := opp.GrossProfit.Int64(); got != 127 {
		t.Fatalf("GrossProfit = %d, want 127", got)
	}
	if got := opp.NetProfit.Int64(); got != 127 {
		t.Fatalf("NetProfit = %d, want 127", got)
	}
	if !opp.Viable {
		t.Fatal("expected viable opportunity")
	}
	if want := decimal.NewFromInt(127); !opp.ProfitPercent.Equal(want) {
		t.Fatalf("ProfitPercent = %s, want %s", opp.ProfitPercent, want)
	}

	// Simulation must not touch reserves: replaying gives the same result.
	again := sim.Simulate(route, big.NewInt(100))
	if again.AmountOut.Cmp(opp.AmountOut) != 0 {
		t.Fatalf("second simulation diverged: %s vs %s", again.AmountOut, opp.AmountOut)
	}
}

func TestSimulateReferenceValuation(t *testing.T) {
	tokens := flatRegistry()
	sim := profitableTriangle(t, tokens)
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	opp := sim.Simulate(route, big.NewInt(100))

	// 127 GALA through the GALA/GUSDC pool: 127*1000/1127 = 112.
	if want := decimal.NewFromInt(112); !opp.ReferenceProfit.Equal(want) {
		t.Fatalf("ReferenceProfit = %s, want %s", opp.ReferenceProfit, want)
	}
}

func TestSimulateCostModel(t *testing.T) {
	tokens := flatRegistry()
	pools := seedPools(t, tokens, []poolSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		{a: token.GUSDCID, b: token.GWETHID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		{a: token.GWETHID, b: token.GALAID, reserveA: 1000, reserveB: 3000, feeBps: 0},
	})
	sim := NewSimulator(pools, tokens, SimulatorConfig{
		BaseCost:       decimal.NewFromInt(1),
		PerHopCost:     decimal.RequireFromString("0.5"),
		ReferenceToken: token.GUSDCID,
	})
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	opp := sim.Simulate(route, big.NewInt(100))

	// base 1 + 0.5 per hop * 3 hops = 2.5, truncated to native units.
	if got := opp.EstimatedCost.Int64(); got != 2 {
		t.Fatalf("EstimatedCost = %d, want 2", got)
	}
	if got := opp.NetProfit.Int64(); got != 125 {
		t.Fatalf("NetProfit = %d, want 125", got)
	}
}

func TestSimulateZeroReserve(t *testing.T) {
	tokens := flatRegistry()
	pools := seedPools(t, tokens, []poolSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		// Created but never funded.
		{a: token.GUSDCID, b: token.GWETHID, feeBps: 0},
		{a: token.GWETHID, b: token.GALAID, reserveA: 1000, reserveB: 3000, feeBps: 0},
	})
	sim := NewSimulator(pools, tokens, SimulatorConfig{ReferenceToken: token.GUSDCID})
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	opp := sim.Simulate(route, big.NewInt(100))
	if opp.Viable {
		t.Fatal("route over a drained pool must not be viable")
	}
	if opp.AmountOut.Sign() != 0 {
		t.Fatalf("AmountOut = %s, want 0", opp.AmountOut)
	}
}

func TestSimulateMissingPool(t *testing.T) {
	tokens := flatRegistry()
	pools := seedPools(t, tokens, []poolSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000, feeBps: 0},
		{a: token.GUSDCID, b: token.GWETHID, reserveA: 1000, reserveB: 1000, feeBps: 0},
	})
	sim := NewSimulator(pools, tokens, SimulatorConfig{ReferenceToken: token.GUSDCID})
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	opp := sim.Simulate(route, big.NewInt(100))
	if opp.Viable {
		t.Fatal("route over a missing pool must not be viable")
	}
}

func TestSimulateInvalidAmount(t *testing.T) {
	tokens := flatRegistry()
	sim := profitableTriangle(t, tokens)
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		if opp := sim.Simulate(route, amount); opp.Viable {
			t.Fatalf("amount %v produced a viable opportunity", amount)
		}
	}
}

func TestMeetsFloor(t *testing.T) {
	tokens := flatRegistry()
	sim := profitableTriangle(t, tokens)
	route := mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)

	viable := sim.Simulate(route, big.NewInt(100))
	if !sim.MeetsFloor(viable) {
		t.Error("127% profit should clear a 0.1% floor")
	}

	thin := &domain.Opportunity{
		Route:         route,
		Viable:        true,
		ProfitPercent: decimal.RequireFromString("0.05"),
	}
	if sim.MeetsFloor(thin) {
		t.Error("0.05% profit should not clear a 0.1% floor")
	}

	dead := domain.NonViable(route, big.NewInt(100))
	if sim.MeetsFloor(dead) {
		t.Error("non-viable opportunity must never clear the floor")
	}
}

func BenchmarkSimulate(b *testing.B) {
	tokens := flatRegistry()
	sim := profitableTriangle(b, tokens)
	route := mustRoute(b, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)
	amountIn := big.NewInt(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Simulate(route, amountIn)
	}
}
