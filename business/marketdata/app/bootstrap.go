package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Bootstrap seeds the token and pool registries from the provider's
// view so a remote-mode scan starts with a populated graph. Listing
// failures degrade to an empty sync; the reserve feed and later
// bootstraps fill the gaps. Returns the number of tokens and pools
// added.
func (s *Service) Bootstrap(ctx context.Context, tokens *token.Registry, pools *ammapp.PoolRegistry) (int, int) {
	ctx, span := s.tracer.Start(ctx, "marketdata.bootstrap")
	defer span.End()

	tokensAdded := 0
	for _, info := range s.Tokens(ctx) {
		// token.New treats these as fixture errors; remote data gets
		// skipped instead.
		if info.Symbol == "" || info.Decimals > 30 {
			s.log.Warn(ctx, "skipping token with unusable metadata",
				"symbol", info.Symbol, "decimals", info.Decimals)
			continue
		}
		if _, ok := tokens.GetBySymbol(info.Symbol); ok {
			continue
		}
		if !common.IsHexAddress(info.Address) {
			s.log.Warn(ctx, "skipping token with unusable address",
				"symbol", info.Symbol, "address", info.Address)
			continue
		}
		id := token.IDFromHex(info.Address)
		if id.IsZero() || tokens.Has(id) {
			s.log.Warn(ctx, "skipping token with unusable address",
				"symbol", info.Symbol, "address", info.Address)
			continue
		}
		tokens.Register(token.NewWithName(id, info.Symbol, info.Name, info.Decimals))
		tokensAdded++
	}

	poolsAdded := 0
	for _, snap := range s.Pools(ctx) {
		t0, ok0 := tokens.GetBySymbol(snap.Token0)
		t1, ok1 := tokens.GetBySymbol(snap.Token1)
		if !ok0 || !ok1 {
			s.log.Warn(ctx, "skipping pool with unknown token",
				"pair", snap.Pair, "token0", snap.Token0, "token1", snap.Token1)
			continue
		}

		pool, exists := pools.Get(t0.ID(), t1.ID())
		if !exists {
			created, err := pools.CreatePool(t0, t1, snap.FeeBps)
			if err != nil {
				s.log.Warn(ctx, "failed to create pool from snapshot", "pair", snap.Pair, "error", err)
				continue
			}
			pool = created
			poolsAdded++
		}

		if snap.Reserve0 == nil || snap.Reserve1 == nil {
			continue
		}
		reserve0, reserve1 := snap.Reserve0, snap.Reserve1
		// CreatePool stores tokens in canonical order; reorient the
		// snapshot reserves to match.
		if !pool.Token0().ID().Equals(t0.ID()) {
			reserve0, reserve1 = reserve1, reserve0
		}
		if err := pool.SyncReserves(reserve0, reserve1); err != nil {
			s.log.Warn(ctx, "failed to sync pool reserves", "pair", snap.Pair, "error", err)
		}
	}

	s.log.Info(ctx, "market data bootstrap complete",
		"tokens_added", tokensAdded, "pools_added", poolsAdded)
	return tokensAdded, poolsAdded
}
