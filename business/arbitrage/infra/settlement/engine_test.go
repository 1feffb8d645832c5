package settlement

import (
	"context"
	"io"
	"math/big"
	"strings"
	"testing"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra/wallet"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func nopLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testTokens() *token.Registry {
	r := token.NewRegistry()
	r.Register(token.New(token.GALAID, "GALA", 0))
	r.Register(token.New(token.GUSDCID, "GUSDC", 0))
	r.Register(token.New(token.GWETHID, "GWETH", 0))
	return r
}

type reserveSeed struct {
	a, b     token.ID
	reserveA int64
	reserveB int64
}

// trianglePools builds a fee-free cycle where
// 100 GALA -> 90 GUSDC -> 82 GWETH -> 227 GALA.
func trianglePools(t *testing.T, tokens *token.Registry, seeds []reserveSeed) *ammapp.PoolRegistry {
	t.Helper()
	pools := ammapp.NewPoolRegistry(ammapp.NewEventStream(0))
	for _, seed := range seeds {
		pool, err := pools.CreatePool(tokens.MustGet(seed.a), tokens.MustGet(seed.b), 0)
		if err != nil {
			t.Fatalf("CreatePool: %v", err)
		}
		r0, r1 := seed.reserveA, seed.reserveB
		if !pool.Token0().ID().Equals(seed.a) {
			r0, r1 = r1, r0
		}
		if _, err := pool.AddLiquidity("genesis", big.NewInt(r0), big.NewInt(r1)); err != nil {
			t.Fatalf("AddLiquidity: %v", err)
		}
	}
	return pools
}

func fullTriangle(t *testing.T, tokens *token.Registry) *ammapp.PoolRegistry {
	t.Helper()
	return trianglePools(t, tokens, []reserveSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000},
		{a: token.GUSDCID, b: token.GWETHID, reserveA: 1000, reserveB: 1000},
		{a: token.GWETHID, b: token.GALAID, reserveA: 1000, reserveB: 3000},
	})
}

func settlementOpp(t *testing.T) *domain.Opportunity {
	t.Helper()
	route, err := domain.NewRoute([]token.ID{token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID})
	if err != nil {
		t.Fatalf("NewRoute: %v", err)
	}
	return &domain.Opportunity{
		Route:         route,
		AmountIn:      big.NewInt(100),
		AmountOut:     big.NewInt(227),
		GrossProfit:   big.NewInt(127),
		EstimatedCost: big.NewInt(2),
		NetProfit:     big.NewInt(125),
		Viable:        true,
	}
}

func fundedWallet(amount int64) *wallet.Wallet {
	w := wallet.New()
	w.Credit(token.GALAID, big.NewInt(amount))
	return w
}

func galaBalance(t *testing.T, w *wallet.Wallet) int64 {
	t.Helper()
	balance, err := w.Balance(context.Background(), token.GALAID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	return balance.Int64()
}

func TestSettleSuccess(t *testing.T) {
	tokens := testTokens()
	pools := fullTriangle(t, tokens)
	w := fundedWallet(1000)
	engine := NewSimulatedEngine(pools, w, "engine", nopLogger())

	result, err := engine.Settle(context.Background(), settlementOpp(t), domain.Decision{
		Execute:    true,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if !result.Success {
		t.Fatalf("settlement failed: %s", result.Error)
	}
	if result.SettlementID == "" {
		t.Fatal("missing settlement ID")
	}
	if got := result.RealizedProfit.Int64(); got != 125 {
		t.Fatalf("RealizedProfit = %d, want 227-100-2 = 125", got)
	}

	// Wallet moved from 1000 to 1000 - 100 + 227.
	if got := galaBalance(t, w); got != 1127 {
		t.Fatalf("wallet = %d, want 1127", got)
	}
}

func TestSettleAdjustedAmount(t *testing.T) {
	tokens := testTokens()
	pools := fullTriangle(t, tokens)
	w := fundedWallet(1000)
	engine := NewSimulatedEngine(pools, w, "engine", nopLogger())

	result, err := engine.Settle(context.Background(), settlementOpp(t), domain.Decision{
		Execute:        true,
		Confidence:     0.9,
		AdjustedAmount: big.NewInt(50),
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !result.Success {
		t.Fatalf("settlement failed: %s", result.Error)
	}

	// 50 -> 47 -> 44 -> 126 with the oracle's smaller size.
	if got := galaBalance(t, w); got != 1000-50+126 {
		t.Fatalf("wallet = %d, want 1076", got)
	}
}

func TestSettleMissingPoolRollsBack(t *testing.T) {
	tokens := testTokens()
	// Second hop has no pool.
	pools := trianglePools(t, tokens, []reserveSeed{
		{a: token.GALAID, b: token.GUSDCID, reserveA: 1000, reserveB: 1000},
		{a: token.GWETHID, b: token.GALAID, reserveA: 1000, reserveB: 3000},
	})
	w := fundedWallet(1000)
	engine := NewSimulatedEngine(pools, w, "engine", nopLogger())

	result, err := engine.Settle(context.Background(), settlementOpp(t), domain.Decision{
		Execute:    true,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if result.Success {
		t.Fatal("settlement over a missing pool must fail")
	}
	if !strings.Contains(result.Error, "no pool for hop 1") {
		t.Fatalf("Error = %q", result.Error)
	}

	// The first hop was counter-swapped and the debit refunded.
	if got := galaBalance(t, w); got != 1000 {
		t.Fatalf("wallet = %d after rollback, want 1000", got)
	}
}

func TestSettleInsufficientBalance(t *testing.T) {
	tokens := testTokens()
	pools := fullTriangle(t, tokens)
	w := fundedWallet(10)
	engine := NewSimulatedEngine(pools, w, "engine", nopLogger())

	result, err := engine.Settle(context.Background(), settlementOpp(t), domain.Decision{
		Execute:    true,
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if result.Success {
		t.Fatal("settlement without funds must fail")
	}
	if !strings.Contains(result.Error, "wallet debit failed") {
		t.Fatalf("Error = %q", result.Error)
	}
	if got := galaBalance(t, w); got != 10 {
		t.Fatalf("wallet = %d, want untouched 10", got)
	}
}

func TestSettleCancelledContext(t *testing.T) {
	tokens := testTokens()
	pools := fullTriangle(t, tokens)
	w := fundedWallet(1000)
	engine := NewSimulatedEngine(pools, w, "engine", nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Settle(ctx, settlementOpp(t), domain.Decision{Execute: true, Confidence: 0.9})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if result.Success {
		t.Fatal("cancelled settlement must fail")
	}
	if got := galaBalance(t, w); got != 1000 {
		t.Fatalf("wallet = %d, want 1000", got)
	}
}
