// Package arbitrage implements the arbitrage bounded context: cyclic
// route discovery, profit simulation, oracle-gated execution and the
// scan orchestrator.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	ammDI "github.com/0xmoleclub/gSwap/business/amm/di"
	"github.com/0xmoleclub/gSwap/business/arbitrage/app"
	arbDI "github.com/0xmoleclub/gSwap/business/arbitrage/di"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra/oracle"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra/settlement"
	"github.com/0xmoleclub/gSwap/business/arbitrage/infra/wallet"
	"github.com/0xmoleclub/gSwap/internal/config"
	"github.com/0xmoleclub/gSwap/internal/di"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/monolith"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.Wallet, func(sr di.ServiceRegistry) *wallet.Wallet {
		return wallet.New()
	})

	di.RegisterToken(c, arbDI.Simulator, func(sr di.ServiceRegistry) *app.Simulator {
		cfg := sr.Get("config").(*config.Config)
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		pools := ammDI.GetPoolRegistry(sr)

		return app.NewSimulator(pools, tokens, app.SimulatorConfig{
			BaseCost:         decimal.NewFromFloat(cfg.Settlement.BaseCost),
			PerHopCost:       decimal.NewFromFloat(cfg.Settlement.PerHopCost),
			MinProfitPercent: cfg.Arbitrage.MinProfitPercentDecimal(),
			ReferenceToken:   referenceTokenID(cfg, tokens),
		})
	})

	di.RegisterToken(c, arbDI.Ranker, func(sr di.ServiceRegistry) *app.Ranker {
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		return app.NewRanker(tokens)
	})

	di.RegisterToken(c, arbDI.OracleClient, func(sr di.ServiceRegistry) app.OracleClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		pools := ammDI.GetPoolRegistry(sr)

		if cfg.Oracle.Endpoint == "" {
			return oracle.NewHeuristic(cfg.Arbitrage.MinProfitPercentDecimal())
		}

		client, err := oracle.NewClient(oracle.Config{
			Endpoint:          cfg.Oracle.Endpoint,
			APIKey:            cfg.Oracle.APIKey,
			RequestTimeout:    cfg.Oracle.RequestTimeout,
			MaxRetries:        cfg.Oracle.MaxRetries,
			InitialBackoff:    cfg.Oracle.InitialBackoff,
			RequestsPerMinute: cfg.Oracle.RequestsPerMinute,
		}, pools, tokens, log)
		if err != nil {
			panic("failed to create oracle client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, arbDI.SettlementEngine, func(sr di.ServiceRegistry) app.SettlementEngine {
		log := sr.Get("logger").(logger.LoggerInterface)
		pools := ammDI.GetPoolRegistry(sr)
		w := arbDI.GetWallet(sr)

		return settlement.NewSimulatedEngine(pools, w, "engine", log)
	})

	di.RegisterToken(c, arbDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		if cfg.Arbitrage.TUIMode {
			return infra.NewTUIReporter(tokens)
		}
		return infra.NewConsoleReporter(tokens)
	})

	di.RegisterToken(c, arbDI.Executor, func(sr di.ServiceRegistry) *app.Executor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokens := sr.Get("tokenRegistry").(*token.Registry)

		return app.NewExecutor(
			arbDI.GetWallet(sr),
			arbDI.GetSettlementEngine(sr),
			tokens,
			app.ExecutorConfig{
				ConfidenceThreshold: cfg.Arbitrage.ConfidenceThreshold,
				CostCeiling:         decimal.NewFromFloat(cfg.Settlement.CostCeiling),
				MinProfitPercent:    cfg.Arbitrage.MinProfitPercentDecimal(),
			},
			log,
		)
	})

	di.RegisterToken(c, arbDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		pools := ammDI.GetPoolRegistry(sr)

		return app.NewOrchestrator(
			tokens,
			pools,
			arbDI.GetSimulator(sr),
			arbDI.GetRanker(sr),
			arbDI.GetOracleClient(sr),
			arbDI.GetExecutor(sr),
			arbDI.GetReporter(sr),
			app.OrchestratorConfig{
				PollInterval:     cfg.Arbitrage.PollInterval,
				MaxHops:          cfg.Arbitrage.MaxHops,
				MaxOpportunities: cfg.Arbitrage.MaxOpportunities,
				AutoExecute:      cfg.Arbitrage.AutoExecute,
				ProbeAmounts:     cfg.Arbitrage.ProbeAmountsDecimal(),
			},
			log,
		)
	})

	return nil
}

// Startup funds the engine wallet in local mode so preflight checks
// have balances to verify against.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	if cfg.Provider.Local {
		w := arbDI.GetWallet(mono.Services())
		for _, t := range mono.TokenRegistry().All() {
			// 10,000 display units of each token.
			funding := decimal.NewFromInt(10_000).Shift(int32(t.Decimals())).BigInt()
			w.Credit(t.ID(), funding)
		}
		log.Info(ctx, "funded local wallet", "tokens", mono.TokenRegistry().Count())
	}

	log.Info(ctx, "arbitrage module started")
	return nil
}

// referenceTokenID resolves the configured reference token symbol,
// falling back to the zero ID when unknown.
func referenceTokenID(cfg *config.Config, tokens *token.Registry) token.ID {
	if t, ok := tokens.GetBySymbol(cfg.Arbitrage.ReferenceToken); ok {
		return t.ID()
	}
	return token.ID{}
}
