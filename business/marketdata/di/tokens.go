// Package di contains dependency injection tokens for the market data context.
package di

import (
	"github.com/0xmoleclub/gSwap/business/marketdata/app"
	"github.com/0xmoleclub/gSwap/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("marketdata.Service")
)

// Private dependency tokens - internal to the market data module
var (
	Provider = di.NewToken[app.Provider]("marketdata:provider")
)

// Helper functions for type-safe access
func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}

func GetProvider(c di.ServiceRegistry) app.Provider {
	return di.GetToken(c, Provider)
}
