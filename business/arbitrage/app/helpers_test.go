package app

import (
	"io"
	"math/big"
	"testing"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func nopLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

// flatRegistry registers the three test tokens with zero decimals so
// native and display units coincide and expected amounts stay small.
func flatRegistry() *token.Registry {
	r := token.NewRegistry()
	r.Register(token.New(token.GALAID, "GALA", 0))
	r.Register(token.New(token.GUSDCID, "GUSDC", 0))
	r.Register(token.New(token.GWETHID, "GWETH", 0))
	return r
}

type poolSeed struct {
	a, b     token.ID
	reserveA int64
	reserveB int64
	feeBps   int64
}

// seedPools builds a registry holding one funded pool per seed.
// Reserves are given in (a, b) order and reoriented to the pool's
// canonical token order.
func seedPools(t testing.TB, tokens *token.Registry, seeds []poolSeed) *ammapp.PoolRegistry {
	t.Helper()

	stream := ammapp.NewEventStream(0)
	pools := ammapp.NewPoolRegistry(stream)

	for _, seed := range seeds {
		pool, err := pools.CreatePool(tokens.MustGet(seed.a), tokens.MustGet(seed.b), seed.feeBps)
		if err != nil {
			t.Fatalf("CreatePool: %v", err)
		}

		r0, r1 := seed.reserveA, seed.reserveB
		if !pool.Token0().ID().Equals(seed.a) {
			r0, r1 = r1, r0
		}
		if r0 == 0 && r1 == 0 {
			continue
		}
		if _, err := pool.AddLiquidity("genesis", big.NewInt(r0), big.NewInt(r1)); err != nil {
			t.Fatalf("AddLiquidity: %v", err)
		}
	}
	return pools
}

func mustRoute(t testing.TB, ids ...token.ID) domain.Route {
	t.Helper()
	route, err := domain.NewRoute(ids)
	if err != nil {
		t.Fatalf("NewRoute: %v", err)
	}
	return route
}
