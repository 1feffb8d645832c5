// Package marketdata implements the market data bounded context: the
// indexer query client, the live reserve feed and the local provider.
package marketdata

import (
	"context"

	ammDI "github.com/0xmoleclub/gSwap/business/amm/di"
	"github.com/0xmoleclub/gSwap/business/marketdata/app"
	mdDI "github.com/0xmoleclub/gSwap/business/marketdata/di"
	"github.com/0xmoleclub/gSwap/business/marketdata/infra/indexer"
	"github.com/0xmoleclub/gSwap/business/marketdata/infra/memory"
	"github.com/0xmoleclub/gSwap/internal/config"
	"github.com/0xmoleclub/gSwap/internal/di"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/monolith"
	"github.com/0xmoleclub/gSwap/internal/token"
	"github.com/0xmoleclub/gSwap/pkg/ui"
)

// Module implements the market data bounded context.
type Module struct {
	feed *indexer.Feed
}

// RegisterServices registers all market data services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, mdDI.Provider, func(sr di.ServiceRegistry) app.Provider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokens := sr.Get("tokenRegistry").(*token.Registry)
		pools := ammDI.GetPoolRegistry(sr)

		if cfg.Provider.Local {
			return memory.NewProvider(pools, tokens)
		}

		client, err := indexer.NewClient(indexer.ClientConfig{
			BaseURL:        cfg.Provider.BaseURL,
			RequestTimeout: cfg.Provider.RequestTimeout,
		}, log)
		if err != nil {
			panic("failed to create indexer client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, mdDI.Service, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewService(mdDI.GetProvider(sr), log)
	})

	return nil
}

// Startup seeds the registries from the indexer and connects the live
// reserve feed; local mode reads the registry directly and needs
// neither.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	if !cfg.Provider.Local {
		// Bootstrap before the feed connects so live updates find their
		// pools instead of being dropped as unknown.
		svc := mdDI.GetService(mono.Services())
		svc.Bootstrap(ctx, mono.TokenRegistry(), ammDI.GetPoolRegistry(mono.Services()))
	}

	if !cfg.Provider.Local && cfg.Provider.WebSocketURL != "" {
		feedCfg := indexer.FeedConfig{WebSocketURL: cfg.Provider.WebSocketURL}
		if cfg.Arbitrage.TUIMode {
			feedCfg.OnState = func(connected bool) {
				ui.Send(ui.FeedStateMsg{Name: "Indexer", Connected: connected})
			}
		}
		feed, err := indexer.NewFeed(feedCfg, ammDI.GetPoolRegistry(mono.Services()), mono.TokenRegistry(), log)
		if err != nil {
			return err
		}
		if err := feed.Start(ctx); err != nil {
			// Reserve data degrades to poll freshness; scanning continues.
			log.Warn(ctx, "reserve feed unavailable, relying on polling", "error", err)
		} else {
			m.feed = feed
		}
	}

	log.Info(ctx, "market data module started", "local", cfg.Provider.Local)
	return nil
}

// Close stops the reserve feed if one is running.
func (m *Module) Close() error {
	if m.feed != nil {
		return m.feed.Close()
	}
	return nil
}
