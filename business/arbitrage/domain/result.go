package domain

import (
	"math/big"
	"time"
)

// TransactionResult reports the outcome of one settlement attempt.
type TransactionResult struct {
	Success      bool
	SettlementID string

	// Sequence orders submitted settlements; assigned by the executor
	// on success.
	Sequence uint64

	// Cost is the settlement cost actually incurred, in start-token
	// units.
	Cost           *big.Int
	RealizedProfit *big.Int

	Error       string
	CompletedAt time.Time
}

// Failed builds a failure result with the given reason.
func Failed(reason string) *TransactionResult {
	return &TransactionResult{
		Success:     false,
		Cost:        new(big.Int),
		Error:       reason,
		CompletedAt: time.Now().UTC(),
	}
}

// PreflightReport aggregates every failed preflight check; execution
// is skipped when any check fails.
type PreflightReport struct {
	Passed bool
	Errors []string
}
