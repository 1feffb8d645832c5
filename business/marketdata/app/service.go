// Package app exposes the market data query service.
package app

import (
	"context"
	"math/big"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/0xmoleclub/gSwap/business/marketdata/domain"
	"github.com/0xmoleclub/gSwap/internal/logger"
)

const tracerName = "marketdata"

// Service fronts a Provider for the rest of the application. Listing
// methods degrade to empty results when the provider is unreachable:
// a scan over stale or missing data is a missed cycle, not a crash.
type Service struct {
	provider Provider
	log      logger.LoggerInterface
	tracer   trace.Tracer
}

// NewService creates the market data service.
func NewService(provider Provider, log logger.LoggerInterface) *Service {
	return &Service{
		provider: provider,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Tokens lists the known tokens, empty on provider failure.
func (s *Service) Tokens(ctx context.Context) []domain.TokenInfo {
	ctx, span := s.tracer.Start(ctx, "marketdata.tokens")
	defer span.End()

	tokens, err := s.provider.ListTokens(ctx)
	if err != nil {
		s.log.Warn(ctx, "token listing unavailable", "error", err)
		return nil
	}
	span.SetAttributes(attribute.Int("tokens", len(tokens)))
	return tokens
}

// Pools lists all pool snapshots, empty on provider failure.
func (s *Service) Pools(ctx context.Context) []domain.PoolSnapshot {
	ctx, span := s.tracer.Start(ctx, "marketdata.pools")
	defer span.End()

	pools, err := s.provider.ListPools(ctx)
	if err != nil {
		s.log.Warn(ctx, "pool listing unavailable", "error", err)
		return nil
	}
	span.SetAttributes(attribute.Int("pools", len(pools)))
	return pools
}

// PoolsForToken lists the pools containing a token, empty on provider
// failure or an unknown symbol.
func (s *Service) PoolsForToken(ctx context.Context, symbol string) []domain.PoolSnapshot {
	ctx, span := s.tracer.Start(ctx, "marketdata.pools_for_token",
		trace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	pools, err := s.provider.PoolsForToken(ctx, symbol)
	if err != nil {
		s.log.Warn(ctx, "pool lookup unavailable", "symbol", symbol, "error", err)
		return nil
	}
	return pools
}

// RouteProfit requests a server-side estimate for a route. Unlike the
// listings this surfaces the error: a missing estimate must not be
// mistaken for an unprofitable route.
func (s *Service) RouteProfit(ctx context.Context, route []string, amountIn *big.Int) (*domain.RouteEstimate, error) {
	ctx, span := s.tracer.Start(ctx, "marketdata.route_profit",
		trace.WithAttributes(attribute.StringSlice("route", route)))
	defer span.End()

	estimate, err := s.provider.RouteProfit(ctx, route, amountIn)
	if err != nil {
		s.log.Warn(ctx, "route estimate unavailable", "route", route, "error", err)
		return nil, err
	}
	return estimate, nil
}
