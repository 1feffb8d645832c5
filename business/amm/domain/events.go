package domain

import (
	"math/big"
	"time"

	"github.com/0xmoleclub/gSwap/internal/token"
)

// EventType identifies a pool state change.
type EventType string

const (
	EventPoolCreated      EventType = "pool-created"
	EventTradeExecuted    EventType = "trade-executed"
	EventLiquidityAdded   EventType = "liquidity-added"
	EventLiquidityRemoved EventType = "liquidity-removed"
	EventReserveSynced    EventType = "reserve-synced"
)

// Event is a settlement-change notification emitted by pool
// operations. Sequence is assigned by the event stream at publish
// time, monotonically increasing across all pools, so downstream
// consumers can order events without a shared clock.
type Event struct {
	Type     EventType
	Sequence uint64
	Pool     string
	Token0   token.ID
	Token1   token.ID
	Actor    string
	Amount0  *big.Int
	Amount1  *big.Int
	Reserve0 *big.Int
	Reserve1 *big.Int
	At       time.Time
}
