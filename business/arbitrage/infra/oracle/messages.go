// Package oracle implements the advisory decision service client.
package oracle

import (
	"fmt"
	"math/big"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
)

// decisionRequest is the structured opportunity summary sent to the
// decision service.
type decisionRequest struct {
	Route         []string       `json:"route"`
	AmountIn      string         `json:"amountIn"`
	AmountOut     string         `json:"amountOut"`
	GrossProfit   string         `json:"grossProfit"`
	NetProfit     string         `json:"netProfit"`
	ProfitPercent string         `json:"profitPercent"`
	EstimatedCost string         `json:"estimatedCost"`
	Hops          int            `json:"hops"`
	Pools         []poolSnapshot `json:"pools"`
}

// poolSnapshot carries one constituent pool's current state.
type poolSnapshot struct {
	Pair     string `json:"pair"`
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
	FeeBps   int64  `json:"feeBps"`
}

// decisionResponse is the strict schema for the service's decision.
// Required fields are pointers so absence is distinguishable from zero
// values; any ambiguity fails closed rather than guessing intent.
type decisionResponse struct {
	Execute        *bool    `json:"execute"`
	Confidence     *float64 `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	AdjustedAmount string   `json:"adjustedAmount,omitempty"`
	MaxSlippageBps int64    `json:"maxSlippageBps,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	Risks          []string `json:"risks,omitempty"`
}

// toDecision validates the response and converts it to a domain
// decision. Any violation returns an error so the caller can fall
// back to the conservative default.
func (r *decisionResponse) toDecision() (domain.Decision, error) {
	if r.Execute == nil {
		return domain.Decision{}, fmt.Errorf("missing required field: execute")
	}
	if r.Confidence == nil {
		return domain.Decision{}, fmt.Errorf("missing required field: confidence")
	}
	if *r.Confidence < 0 || *r.Confidence > 1 {
		return domain.Decision{}, fmt.Errorf("confidence %f out of [0,1]", *r.Confidence)
	}
	if r.MaxSlippageBps < 0 || r.MaxSlippageBps > 10000 {
		return domain.Decision{}, fmt.Errorf("maxSlippageBps %d out of range", r.MaxSlippageBps)
	}

	urgency := r.Urgency
	switch urgency {
	case "":
		urgency = domain.UrgencyLow
	case domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh:
	default:
		return domain.Decision{}, fmt.Errorf("unknown urgency %q", r.Urgency)
	}

	var adjusted *big.Int
	if r.AdjustedAmount != "" {
		v, ok := new(big.Int).SetString(r.AdjustedAmount, 10)
		if !ok || v.Sign() <= 0 {
			return domain.Decision{}, fmt.Errorf("malformed adjustedAmount %q", r.AdjustedAmount)
		}
		adjusted = v
	}

	return domain.Decision{
		Execute:        *r.Execute,
		Confidence:     *r.Confidence,
		Reasoning:      r.Reasoning,
		AdjustedAmount: adjusted,
		MaxSlippageBps: r.MaxSlippageBps,
		Urgency:        urgency,
		Risks:          r.Risks,
	}, nil
}
