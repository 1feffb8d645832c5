package domain

import "math/big"

// Urgency tiers reported by the advisory oracle.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Decision is the advisory oracle's verdict on one opportunity. The
// engine fails closed: any parse failure or exhausted retry budget
// resolves to Conservative, never to a guess.
type Decision struct {
	Execute    bool
	Confidence float64
	Reasoning  string

	// AdjustedAmount is the oracle's recommended input amount; nil
	// means keep the simulated amount.
	AdjustedAmount *big.Int

	// MaxSlippageBps bounds acceptable output shortfall at settlement.
	MaxSlippageBps int64

	Urgency string
	Risks   []string
}

// Conservative is the safe default: do not execute, zero confidence,
// with the refusal reason recorded.
func Conservative(reason string) Decision {
	return Decision{
		Execute:    false,
		Confidence: 0,
		Reasoning:  reason,
		Urgency:    UrgencyLow,
	}
}
