// Package domain contains the constant-product pool model and its
// liquidity accounting.
package domain

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

const feeDenominator = 10000

// Notifier receives events emitted by pool operations.
type Notifier func(Event)

// Pool is a two-asset constant-product market. Reserves and shares are
// only mutated by AddLiquidity, RemoveLiquidity and Swap, each of which
// runs under the pool's re-entrancy guard and ends by emitting a
// reserve-update event.
type Pool struct {
	token0 *token.Token
	token1 *token.Token
	feeBps int64

	mu          sync.Mutex
	reserve0    *big.Int
	reserve1    *big.Int
	totalShares *big.Int
	shares      map[string]*big.Int

	// busy is the re-entrancy guard: a second concurrent mutating call
	// fails fast instead of blocking.
	busy   atomic.Bool
	notify Notifier
}

// NewPool creates a pool for the given token pair. Tokens are stored in
// canonical order (token0 < token1 by identity) regardless of argument
// order.
func NewPool(a, b *token.Token, feeBps int64, notify Notifier) (*Pool, error) {
	if a == nil || b == nil {
		return nil, apperror.Validation(apperror.CodeUnknownToken, "pool requires two tokens")
	}
	if a.ID().Equals(b.ID()) {
		return nil, apperror.Validation(apperror.CodeIdenticalTokens, a.Symbol())
	}
	if feeBps < 0 || feeBps >= feeDenominator {
		return nil, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("fee %d bps out of range", feeBps))
	}

	if b.ID().Less(a.ID()) {
		a, b = b, a
	}
	if notify == nil {
		notify = func(Event) {}
	}

	return &Pool{
		token0:      a,
		token1:      b,
		feeBps:      feeBps,
		reserve0:    new(big.Int),
		reserve1:    new(big.Int),
		totalShares: new(big.Int),
		shares:      make(map[string]*big.Int),
		notify:      notify,
	}, nil
}

// QuoteOutput prices a swap against the given reserves:
//
//	amountOut = floor(amountIn·(10000−feeBps)·reserveOut / (reserveIn·10000 + amountIn·(10000−feeBps)))
//
// The truncating division here is load-bearing: the route simulator
// replays this exact function, so any rounding difference would make
// profitability predictions diverge from settled trades.
func QuoteOutput(amountIn, reserveIn, reserveOut *big.Int, feeBps int64) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.Invariant(apperror.CodeInsufficientInput, "amountIn must be positive")
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, apperror.Invariant(apperror.CodeInsufficientLiquidity, "both reserves must be positive")
	}

	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(feeDenominator-feeBps))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(feeDenominator))
	denominator.Add(denominator, amountInWithFee)

	return numerator.Quo(numerator, denominator), nil
}

// Token0 returns the lower-ordered token of the pair.
func (p *Pool) Token0() *token.Token { return p.token0 }

// Token1 returns the higher-ordered token of the pair.
func (p *Pool) Token1() *token.Token { return p.token1 }

// FeeBps returns the swap fee in basis points.
func (p *Pool) FeeBps() int64 { return p.feeBps }

// Symbol returns a display identifier like "GALA/GUSDC".
func (p *Pool) Symbol() string {
	return p.token0.Symbol() + "/" + p.token1.Symbol()
}

// Has reports whether id is one of the pool's two tokens.
func (p *Pool) Has(id token.ID) bool {
	return p.token0.ID().Equals(id) || p.token1.ID().Equals(id)
}

// Reserves returns copies of the current reserves in canonical order.
func (p *Pool) Reserves() (*big.Int, *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.reserve0), new(big.Int).Set(p.reserve1)
}

// ReservesFor returns copies of the reserves oriented so the first
// value is the tokenIn side.
func (p *Pool) ReservesFor(tokenIn token.ID) (reserveIn, reserveOut *big.Int, err error) {
	if !p.Has(tokenIn) {
		return nil, nil, apperror.Validation(apperror.CodeUnknownToken, tokenIn.String()+" not in "+p.Symbol())
	}
	r0, r1 := p.Reserves()
	if p.token0.ID().Equals(tokenIn) {
		return r0, r1, nil
	}
	return r1, r0, nil
}

// TotalShares returns a copy of the total liquidity shares outstanding.
func (p *Pool) TotalShares() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.totalShares)
}

// SharesOf returns a copy of holder's share balance.
func (p *Pool) SharesOf(holder string) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.shares[holder]; ok {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

// Quote prices a swap of amountIn of tokenIn against current reserves
// without mutating the pool.
func (p *Pool) Quote(tokenIn token.ID, amountIn *big.Int) (*big.Int, error) {
	reserveIn, reserveOut, err := p.ReservesFor(tokenIn)
	if err != nil {
		return nil, err
	}
	return QuoteOutput(amountIn, reserveIn, reserveOut, p.feeBps)
}

// acquire takes the re-entrancy guard, failing fast when another
// mutating operation is in flight.
func (p *Pool) acquire() error {
	if !p.busy.CompareAndSwap(false, true) {
		return apperror.Invariant(apperror.CodeReentrancy, p.Symbol())
	}
	return nil
}

func (p *Pool) release() {
	p.busy.Store(false)
}

// AddLiquidity deposits amount0/amount1 (canonical order) and mints
// shares to provider. The first deposit mints floor(sqrt(a0·a1));
// later deposits mint the minimum of the two proportional shares, so
// an unbalanced deposit is penalized to the worse-priced side.
func (p *Pool) AddLiquidity(provider string, amount0, amount1 *big.Int) (*big.Int, error) {
	if amount0 == nil || amount1 == nil || amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return nil, apperror.Invariant(apperror.CodeZeroAmount, "deposit amounts must be positive")
	}
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	p.mu.Lock()
	defer p.mu.Unlock()

	var minted *big.Int
	if p.totalShares.Sign() == 0 {
		minted = babylonianSqrt(new(big.Int).Mul(amount0, amount1))
	} else {
		// A reserve sync can zero a drained pool while shares are still
		// outstanding; the proportional formula has no price then.
		if p.reserve0.Sign() == 0 || p.reserve1.Sign() == 0 {
			return nil, apperror.Invariant(apperror.CodeInsufficientLiquidity, "pool reserves drained")
		}
		share0 := new(big.Int).Mul(amount0, p.totalShares)
		share0.Quo(share0, p.reserve0)
		share1 := new(big.Int).Mul(amount1, p.totalShares)
		share1.Quo(share1, p.reserve1)
		minted = share0
		if share1.Cmp(share0) < 0 {
			minted = share1
		}
	}
	if minted.Sign() == 0 {
		return nil, apperror.Invariant(apperror.CodeInsufficientShares, "deposit too small to mint shares")
	}

	p.reserve0.Add(p.reserve0, amount0)
	p.reserve1.Add(p.reserve1, amount1)
	p.totalShares.Add(p.totalShares, minted)
	bal, ok := p.shares[provider]
	if !ok {
		bal = new(big.Int)
		p.shares[provider] = bal
	}
	bal.Add(bal, minted)

	p.emitLocked(EventLiquidityAdded, provider, amount0, amount1)

	return new(big.Int).Set(minted), nil
}

// RemoveLiquidity burns shares from provider and pays out the
// proportional reserves. Fails when either payout would round to zero.
func (p *Pool) RemoveLiquidity(provider string, sharesIn *big.Int) (*big.Int, *big.Int, error) {
	if sharesIn == nil || sharesIn.Sign() <= 0 {
		return nil, nil, apperror.Invariant(apperror.CodeZeroAmount, "share count must be positive")
	}
	if err := p.acquire(); err != nil {
		return nil, nil, err
	}
	defer p.release()

	p.mu.Lock()
	defer p.mu.Unlock()

	bal, ok := p.shares[provider]
	if !ok || bal.Cmp(sharesIn) < 0 {
		return nil, nil, apperror.Invariant(apperror.CodeInsufficientShares, provider)
	}

	amount0 := new(big.Int).Mul(sharesIn, p.reserve0)
	amount0.Quo(amount0, p.totalShares)
	amount1 := new(big.Int).Mul(sharesIn, p.reserve1)
	amount1.Quo(amount1, p.totalShares)
	if amount0.Sign() == 0 || amount1.Sign() == 0 {
		return nil, nil, apperror.Invariant(apperror.CodeDustAmount, "share count too small to redeem")
	}

	bal.Sub(bal, sharesIn)
	if bal.Sign() == 0 {
		delete(p.shares, provider)
	}
	p.totalShares.Sub(p.totalShares, sharesIn)
	p.reserve0.Sub(p.reserve0, amount0)
	p.reserve1.Sub(p.reserve1, amount1)

	p.emitLocked(EventLiquidityRemoved, provider, amount0, amount1)

	return amount0, amount1, nil
}

// Swap trades amountIn of tokenIn for the other token. Fails on an
// expired deadline or when the computed output is below minAmountOut.
func (p *Pool) Swap(trader string, tokenIn token.ID, amountIn, minAmountOut *big.Int, deadline time.Time) (*big.Int, error) {
	if time.Now().After(deadline) {
		return nil, apperror.Invariant(apperror.CodeDeadlineExpired, deadline.Format(time.RFC3339))
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, apperror.Invariant(apperror.CodeZeroAmount, "amountIn must be positive")
	}
	if !p.Has(tokenIn) {
		return nil, apperror.Validation(apperror.CodeUnknownToken, tokenIn.String()+" not in "+p.Symbol())
	}
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	p.mu.Lock()
	defer p.mu.Unlock()

	zeroForOne := p.token0.ID().Equals(tokenIn)
	reserveIn, reserveOut := p.reserve0, p.reserve1
	if !zeroForOne {
		reserveIn, reserveOut = p.reserve1, p.reserve0
	}

	amountOut, err := QuoteOutput(amountIn, reserveIn, reserveOut, p.feeBps)
	if err != nil {
		return nil, err
	}
	if minAmountOut != nil && amountOut.Cmp(minAmountOut) < 0 {
		return nil, apperror.Invariant(apperror.CodeSlippageExceeded,
			fmt.Sprintf("amountOut %s < minAmountOut %s", amountOut, minAmountOut))
	}

	reserveIn.Add(reserveIn, amountIn)
	reserveOut.Sub(reserveOut, amountOut)

	if zeroForOne {
		p.emitLocked(EventTradeExecuted, trader, amountIn, amountOut)
	} else {
		p.emitLocked(EventTradeExecuted, trader, amountOut, amountIn)
	}

	return amountOut, nil
}

// SyncReserves overwrites the reserves from an external snapshot, used
// when reconciling against the indexer's view. Runs under the guard
// like every other mutation.
func (p *Pool) SyncReserves(reserve0, reserve1 *big.Int) error {
	if reserve0 == nil || reserve1 == nil || reserve0.Sign() < 0 || reserve1.Sign() < 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "reserves must be non-negative")
	}
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.release()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.reserve0.Set(reserve0)
	p.reserve1.Set(reserve1)

	p.emitLocked(EventReserveSynced, "", nil, nil)
	return nil
}

// emitLocked publishes an event snapshot; callers must hold p.mu.
func (p *Pool) emitLocked(typ EventType, actor string, amount0, amount1 *big.Int) {
	ev := Event{
		Type:     typ,
		Pool:     p.Symbol(),
		Token0:   p.token0.ID(),
		Token1:   p.token1.ID(),
		Actor:    actor,
		Reserve0: new(big.Int).Set(p.reserve0),
		Reserve1: new(big.Int).Set(p.reserve1),
		At:       time.Now().UTC(),
	}
	if amount0 != nil {
		ev.Amount0 = new(big.Int).Set(amount0)
	}
	if amount1 != nil {
		ev.Amount1 = new(big.Int).Set(amount1)
	}
	p.notify(ev)
}

// babylonianSqrt returns floor(sqrt(x)) by Babylonian iteration.
func babylonianSqrt(x *big.Int) *big.Int {
	if x.Sign() <= 0 {
		return new(big.Int)
	}
	if x.Cmp(big.NewInt(3)) <= 0 {
		return big.NewInt(1)
	}

	z := new(big.Int).Set(x)
	y := new(big.Int).Add(x, big.NewInt(1))
	y.Rsh(y, 1)
	for y.Cmp(z) < 0 {
		z.Set(y)
		t := new(big.Int).Quo(x, y)
		t.Add(t, y)
		y = t.Rsh(t, 1)
	}
	return z
}
