// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/0xmoleclub/gSwap/business/arbitrage/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra/wallet"
	"github.com/0xmoleclub/gSwap/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Orchestrator = di.NewToken[*app.Orchestrator]("arbitrage.Orchestrator")
	Executor     = di.NewToken[*app.Executor]("arbitrage.Executor")
)

// Private dependency tokens - internal to the arbitrage module
var (
	Simulator        = di.NewToken[*app.Simulator]("arbitrage:simulator")
	Ranker           = di.NewToken[*app.Ranker]("arbitrage:ranker")
	OracleClient     = di.NewToken[app.OracleClient]("arbitrage:oracleClient")
	SettlementEngine = di.NewToken[app.SettlementEngine]("arbitrage:settlementEngine")
	Wallet           = di.NewToken[*wallet.Wallet]("arbitrage:wallet")
	Reporter         = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

func GetExecutor(c di.ServiceRegistry) *app.Executor {
	return di.GetToken(c, Executor)
}

func GetSimulator(c di.ServiceRegistry) *app.Simulator {
	return di.GetToken(c, Simulator)
}

func GetRanker(c di.ServiceRegistry) *app.Ranker {
	return di.GetToken(c, Ranker)
}

func GetOracleClient(c di.ServiceRegistry) app.OracleClient {
	return di.GetToken(c, OracleClient)
}

func GetSettlementEngine(c di.ServiceRegistry) app.SettlementEngine {
	return di.GetToken(c, SettlementEngine)
}

func GetWallet(c di.ServiceRegistry) *wallet.Wallet {
	return di.GetToken(c, Wallet)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
