// Package amm implements the pooled-liquidity bounded context: pools,
// the pool registry and the settlement event stream.
package amm

import (
	"context"
	"math/big"

	"github.com/0xmoleclub/gSwap/business/amm/app"
	ammDI "github.com/0xmoleclub/gSwap/business/amm/di"
	"github.com/0xmoleclub/gSwap/internal/di"
	"github.com/0xmoleclub/gSwap/internal/monolith"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Module implements the AMM bounded context.
type Module struct{}

// RegisterServices registers AMM services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, ammDI.EventStream, func(sr di.ServiceRegistry) *app.EventStream {
		return app.NewEventStream(0)
	})

	di.RegisterToken(c, ammDI.PoolRegistry, func(sr di.ServiceRegistry) *app.PoolRegistry {
		stream := ammDI.GetEventStream(sr)
		return app.NewPoolRegistry(stream)
	})

	return nil
}

// Startup initializes the AMM module. In local mode the registry is
// seeded with pools among the well-known tokens so a scan has markets
// to trade against without an external provider.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	// Drain the settlement event stream into the structured log; other
	// consumers take their own subscriptions.
	events := ammDI.GetEventStream(mono.Services()).Subscribe()
	go func() {
		for ev := range events {
			log.Debug(ctx, "pool event",
				"type", string(ev.Type),
				"pool", ev.Pool,
				"actor", ev.Actor,
				"sequence", ev.Sequence)
		}
	}()

	if cfg.Provider.Local {
		registry := ammDI.GetPoolRegistry(mono.Services())
		tokens := mono.TokenRegistry()

		if err := seedLocalPools(registry, tokens); err != nil {
			return err
		}
		log.Info(ctx, "seeded local pools", "count", registry.Count())
	}

	log.Info(ctx, "amm module started")
	return nil
}

// seedLocalPools creates a small connected market among the well-known
// tokens. Reserve ratios are deliberately imperfect so triangular
// routes have exploitable spreads.
func seedLocalPools(registry *app.PoolRegistry, tokens *token.Registry) error {
	seed := []struct {
		a, b    token.ID
		feeBps  int64
		amount0 int64
		amount1 int64
	}{
		{token.GALAID, token.GUSDCID, 30, 1_000_000, 40_000},
		{token.GALAID, token.GWETHID, 30, 2_000_000, 25},
		{token.GUSDCID, token.GWETHID, 30, 80_000, 26},
		{token.GUSDCID, token.GUSDTID, 5, 500_000, 499_000},
		{token.GALAID, token.GUSDTID, 30, 1_050_000, 40_000},
		{token.GWBTCID, token.GUSDCID, 30, 3, 180_000},
	}

	for _, s := range seed {
		a := tokens.MustGet(s.a)
		b := tokens.MustGet(s.b)

		pool, err := registry.CreatePool(a, b, s.feeBps)
		if err != nil {
			return err
		}

		amount0 := big.NewInt(s.amount0)
		amount1 := big.NewInt(s.amount1)
		// CreatePool stores tokens in canonical order; reorient the
		// seed amounts to match.
		if !pool.Token0().ID().Equals(a.ID()) {
			amount0, amount1 = amount1, amount0
		}
		if _, err := pool.AddLiquidity("genesis", amount0, amount1); err != nil {
			return err
		}
	}
	return nil
}
