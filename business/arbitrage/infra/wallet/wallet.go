// Package wallet provides the engine's in-memory balance ledger.
package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Wallet tracks per-token balances for preflight checks and simulated
// settlement.
type Wallet struct {
	mu       sync.Mutex
	balances map[token.ID]*big.Int
}

// New creates an empty wallet.
func New() *Wallet {
	return &Wallet{balances: make(map[token.ID]*big.Int)}
}

// Balance returns a copy of the available balance of id.
func (w *Wallet) Balance(ctx context.Context, id token.ID) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.balances[id]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

// Credit adds amount to the balance of id.
func (w *Wallet) Credit(id token.ID, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.balances[id]
	if !ok {
		b = new(big.Int)
		w.balances[id] = b
	}
	b.Add(b, amount)
}

// Debit removes amount from the balance of id, failing when the
// balance is insufficient.
func (w *Wallet) Debit(id token.ID, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return apperror.Invariant(apperror.CodeZeroAmount, "debit amount must be positive")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.balances[id]
	if !ok || b.Cmp(amount) < 0 {
		return apperror.Invariant(apperror.CodeInsufficientBalance, id.String())
	}
	b.Sub(b, amount)
	return nil
}
