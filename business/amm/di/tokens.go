// Package di contains dependency injection tokens for the AMM context.
package di

import (
	"github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PoolRegistry = di.NewToken[*app.PoolRegistry]("amm.PoolRegistry")
	EventStream  = di.NewToken[*app.EventStream]("amm.EventStream")
)

// Helper functions for type-safe access
func GetPoolRegistry(c di.ServiceRegistry) *app.PoolRegistry {
	return di.GetToken(c, PoolRegistry)
}

func GetEventStream(c di.ServiceRegistry) *app.EventStream {
	return di.GetToken(c, EventStream)
}
