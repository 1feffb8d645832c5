package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func testPool(t *testing.T, feeBps int64) *Pool {
	t.Helper()
	gala := token.New(token.GALAID, "GALA", 8)
	gusdc := token.New(token.GUSDCID, "GUSDC", 6)
	p, err := NewPool(gala, gusdc, feeBps, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return p
}

func fundedPool(t *testing.T, feeBps, reserve0, reserve1 int64) *Pool {
	t.Helper()
	p := testPool(t, feeBps)
	if _, err := p.AddLiquidity("lp", big.NewInt(reserve0), big.NewInt(reserve1)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	return p
}

func TestQuoteOutput(t *testing.T) {
	tests := []struct {
		name      string
		amountIn  int64
		reserveIn int64
		reserveOut int64
		feeBps    int64
		want      int64
		wantCode  apperror.Code
	}{
		{
			name:       "balanced_pool_30bps",
			amountIn:   100,
			reserveIn:  1000,
			reserveOut: 1000,
			feeBps:     30,
			want:       90, // floor of 90.660...
		},
		{
			name:       "no_fee_small_trade",
			amountIn:   10,
			reserveIn:  1000,
			reserveOut: 1000,
			feeBps:     0,
			want:       9, // floor of 10*1000/1010
		},
		{
			name:       "large_trade_never_drains",
			amountIn:   1_000_000_000,
			reserveIn:  1000,
			reserveOut: 1000,
			feeBps:     30,
			want:       999,
		},
		{
			name:      "zero_amount_in",
			amountIn:  0,
			reserveIn: 1000, reserveOut: 1000,
			feeBps:   30,
			wantCode: apperror.CodeInsufficientInput,
		},
		{
			name:      "zero_reserve_in",
			amountIn:  100,
			reserveIn: 0, reserveOut: 1000,
			feeBps:   30,
			wantCode: apperror.CodeInsufficientLiquidity,
		},
		{
			name:      "zero_reserve_out",
			amountIn:  100,
			reserveIn: 1000, reserveOut: 0,
			feeBps:   30,
			wantCode: apperror.CodeInsufficientLiquidity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteOutput(big.NewInt(tt.amountIn), big.NewInt(tt.reserveIn), big.NewInt(tt.reserveOut), tt.feeBps)
			if tt.wantCode != "" {
				if !apperror.IsCode(err, tt.wantCode) {
					t.Fatalf("want code %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("QuoteOutput: %v", err)
			}
			if got.Int64() != tt.want {
				t.Errorf("QuoteOutput = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestQuoteOutputMonotonicAndBounded(t *testing.T) {
	reserveIn := big.NewInt(10_000)
	reserveOut := big.NewInt(5_000)

	prev := big.NewInt(-1)
	for amountIn := int64(1); amountIn <= 100_000; amountIn *= 3 {
		out, err := QuoteOutput(big.NewInt(amountIn), reserveIn, reserveOut, 30)
		if err != nil {
			t.Fatalf("QuoteOutput(%d): %v", amountIn, err)
		}
		if out.Cmp(prev) < 0 {
			t.Errorf("output decreased at amountIn=%d: %s < %s", amountIn, out, prev)
		}
		if out.Cmp(reserveOut) >= 0 {
			t.Errorf("output %s >= reserveOut at amountIn=%d", out, amountIn)
		}
		prev = out
	}
}

func TestAddLiquidityFirstDeposit(t *testing.T) {
	p := testPool(t, 30)

	// floor(sqrt(1000*4000)) = floor(sqrt(4000000)) = 2000
	minted, err := p.AddLiquidity("alice", big.NewInt(1000), big.NewInt(4000))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if minted.Int64() != 2000 {
		t.Errorf("sharesMinted = %s, want 2000", minted)
	}
	if p.TotalShares().Int64() != 2000 {
		t.Errorf("totalShares = %s, want 2000", p.TotalShares())
	}
	if p.SharesOf("alice").Int64() != 2000 {
		t.Errorf("alice shares = %s, want 2000", p.SharesOf("alice"))
	}
}

func TestAddLiquidityProportional(t *testing.T) {
	p := fundedPool(t, 30, 1000, 4000)

	tests := []struct {
		name    string
		amount0 int64
		amount1 int64
		want    int64
	}{
		{name: "balanced_deposit", amount0: 500, amount1: 2000, want: 1000},
		{name: "unbalanced_penalized_to_min", amount0: 500, amount1: 100, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minted, err := p.AddLiquidity("bob", big.NewInt(tt.amount0), big.NewInt(tt.amount1))
			if err != nil {
				t.Fatalf("AddLiquidity: %v", err)
			}
			if minted.Int64() != tt.want {
				t.Errorf("sharesMinted = %s, want %d", minted, tt.want)
			}
		})
	}
}

func TestAddLiquidityZeroAmount(t *testing.T) {
	p := testPool(t, 30)
	if _, err := p.AddLiquidity("alice", big.NewInt(0), big.NewInt(100)); !apperror.IsCode(err, apperror.CodeZeroAmount) {
		t.Errorf("want ZERO_AMOUNT, got %v", err)
	}
}

func TestAddLiquidityDrainedReserves(t *testing.T) {
	// A reserve sync can zero out a drained pool while shares are still
	// outstanding; a deposit then has no price to mint against.
	p := fundedPool(t, 30, 1000, 1000)
	if err := p.SyncReserves(big.NewInt(0), big.NewInt(0)); err != nil {
		t.Fatalf("SyncReserves: %v", err)
	}

	if _, err := p.AddLiquidity("lp2", big.NewInt(100), big.NewInt(100)); !apperror.IsCode(err, apperror.CodeInsufficientLiquidity) {
		t.Errorf("want INSUFFICIENT_LIQUIDITY, got %v", err)
	}

	// One zeroed side is just as priceless as both.
	if err := p.SyncReserves(big.NewInt(500), big.NewInt(0)); err != nil {
		t.Fatalf("SyncReserves: %v", err)
	}
	if _, err := p.AddLiquidity("lp2", big.NewInt(100), big.NewInt(100)); !apperror.IsCode(err, apperror.CodeInsufficientLiquidity) {
		t.Errorf("want INSUFFICIENT_LIQUIDITY, got %v", err)
	}
}

func TestRemoveLiquidityRoundTrip(t *testing.T) {
	p := testPool(t, 30)

	minted, err := p.AddLiquidity("alice", big.NewInt(1000), big.NewInt(4000))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	// First deposit into an empty pool: removing all shares returns
	// exactly what went in.
	amount0, amount1, err := p.RemoveLiquidity("alice", minted)
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	if amount0.Int64() != 1000 || amount1.Int64() != 4000 {
		t.Errorf("round trip = (%s, %s), want (1000, 4000)", amount0, amount1)
	}
	if p.TotalShares().Sign() != 0 {
		t.Errorf("totalShares = %s after full withdrawal", p.TotalShares())
	}
}

func TestRemoveLiquidityNeverReturnsMore(t *testing.T) {
	p := fundedPool(t, 30, 997, 4001)

	minted, err := p.AddLiquidity("bob", big.NewInt(333), big.NewInt(1337))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	amount0, amount1, err := p.RemoveLiquidity("bob", minted)
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	if amount0.Int64() > 333 || amount1.Int64() > 1337 {
		t.Errorf("withdrawal (%s, %s) exceeds deposit (333, 1337)", amount0, amount1)
	}
}

func TestRemoveLiquidityErrors(t *testing.T) {
	p := fundedPool(t, 30, 1000, 4000)

	tests := []struct {
		name     string
		holder   string
		shares   int64
		wantCode apperror.Code
	}{
		{name: "zero_shares", holder: "lp", shares: 0, wantCode: apperror.CodeZeroAmount},
		{name: "unknown_holder", holder: "mallory", shares: 10, wantCode: apperror.CodeInsufficientShares},
		{name: "over_balance", holder: "lp", shares: 1_000_000, wantCode: apperror.CodeInsufficientShares},
		{name: "dust_withdrawal", holder: "lp", shares: 1, wantCode: apperror.CodeDustAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.RemoveLiquidity(tt.holder, big.NewInt(tt.shares))
			if !apperror.IsCode(err, tt.wantCode) {
				t.Errorf("want %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSwap(t *testing.T) {
	deadline := time.Now().Add(time.Minute)

	t.Run("balanced_pool", func(t *testing.T) {
		p := fundedPool(t, 30, 1000, 1000)
		out, err := p.Swap("trader", token.GALAID, big.NewInt(100), big.NewInt(0), deadline)
		if err != nil {
			t.Fatalf("Swap: %v", err)
		}
		if out.Int64() != 90 {
			t.Errorf("amountOut = %s, want 90", out)
		}
		r0, r1 := p.Reserves()
		if r0.Int64() != 1100 || r1.Int64() != 910 {
			t.Errorf("reserves = (%s, %s), want (1100, 910)", r0, r1)
		}
	})

	t.Run("reverse_direction", func(t *testing.T) {
		p := fundedPool(t, 30, 1000, 1000)
		out, err := p.Swap("trader", token.GUSDCID, big.NewInt(100), big.NewInt(0), deadline)
		if err != nil {
			t.Fatalf("Swap: %v", err)
		}
		r0, r1 := p.Reserves()
		if r1.Int64() != 1100 || r0.Int64() != 1000-out.Int64() {
			t.Errorf("reserves = (%s, %s) after reverse swap of 100 for %s", r0, r1, out)
		}
	})

	t.Run("slippage_violated", func(t *testing.T) {
		p := fundedPool(t, 30, 1000, 1000)
		_, err := p.Swap("trader", token.GALAID, big.NewInt(100), big.NewInt(91), deadline)
		if !apperror.IsCode(err, apperror.CodeSlippageExceeded) {
			t.Errorf("want SLIPPAGE_EXCEEDED, got %v", err)
		}
		r0, r1 := p.Reserves()
		if r0.Int64() != 1000 || r1.Int64() != 1000 {
			t.Errorf("reserves mutated on failed swap: (%s, %s)", r0, r1)
		}
	})

	t.Run("expired_deadline", func(t *testing.T) {
		p := fundedPool(t, 30, 1000, 1000)
		_, err := p.Swap("trader", token.GALAID, big.NewInt(100), big.NewInt(0), time.Now().Add(-time.Second))
		if !apperror.IsCode(err, apperror.CodeDeadlineExpired) {
			t.Errorf("want DEADLINE_EXPIRED, got %v", err)
		}
	})

	t.Run("unknown_token", func(t *testing.T) {
		p := fundedPool(t, 30, 1000, 1000)
		_, err := p.Swap("trader", token.GWBTCID, big.NewInt(100), big.NewInt(0), deadline)
		if !apperror.IsCode(err, apperror.CodeUnknownToken) {
			t.Errorf("want UNKNOWN_TOKEN, got %v", err)
		}
	})
}

func TestReentrancyGuard(t *testing.T) {
	p := fundedPool(t, 30, 1000, 1000)

	// Simulate an in-flight mutating operation holding the guard.
	if !p.busy.CompareAndSwap(false, true) {
		t.Fatal("guard unexpectedly held")
	}
	defer p.busy.Store(false)

	_, err := p.Swap("trader", token.GALAID, big.NewInt(100), big.NewInt(0), time.Now().Add(time.Minute))
	if !apperror.IsCode(err, apperror.CodeReentrancy) {
		t.Errorf("want REENTRANCY, got %v", err)
	}
	if _, err := p.AddLiquidity("lp", big.NewInt(10), big.NewInt(10)); !apperror.IsCode(err, apperror.CodeReentrancy) {
		t.Errorf("want REENTRANCY from AddLiquidity, got %v", err)
	}
}

func TestSwapEmitsReserveUpdate(t *testing.T) {
	var events []Event
	gala := token.New(token.GALAID, "GALA", 8)
	gusdc := token.New(token.GUSDCID, "GUSDC", 6)
	p, err := NewPool(gala, gusdc, 30, func(ev Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if _, err := p.AddLiquidity("lp", big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	if _, err := p.Swap("trader", token.GALAID, big.NewInt(100), big.NewInt(0), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Swap: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	trade := events[1]
	if trade.Type != EventTradeExecuted {
		t.Errorf("event type = %s, want %s", trade.Type, EventTradeExecuted)
	}
	if trade.Reserve0.Int64() != 1100 || trade.Reserve1.Int64() != 910 {
		t.Errorf("event reserves = (%s, %s), want post-swap (1100, 910)", trade.Reserve0, trade.Reserve1)
	}
	if trade.Actor != "trader" {
		t.Errorf("event actor = %q", trade.Actor)
	}
}

func TestBabylonianSqrt(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{4_000_000, 2000},
		{999_999, 999},
		{1_000_000_000_000, 1_000_000},
	}
	for _, tt := range tests {
		if got := babylonianSqrt(big.NewInt(tt.in)).Int64(); got != tt.want {
			t.Errorf("babylonianSqrt(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkQuoteOutput(b *testing.B) {
	amountIn := big.NewInt(1_000_000)
	reserveIn := big.NewInt(2_000_000_000)
	reserveOut := big.NewInt(3_000_000_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := QuoteOutput(amountIn, reserveIn, reserveOut, 30); err != nil {
			b.Fatal(err)
		}
	}
}
