// Package app contains application services for the AMM context: the
// pool registry and the settlement event stream.
package app

import (
	"github.com/0xmoleclub/gSwap/business/amm/domain"
)

// EventSink receives settlement-change events from pool operations.
type EventSink interface {
	Publish(domain.Event)
}
