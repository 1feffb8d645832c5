package app

import (
	"math/big"
	"testing"

	"github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func testRegistry(t *testing.T) (*PoolRegistry, *EventStream, *token.Registry) {
	t.Helper()
	stream := NewEventStream(16)
	return NewPoolRegistry(stream), stream, token.DefaultRegistry()
}

func TestCreatePoolOnePerPair(t *testing.T) {
	registry, _, tokens := testRegistry(t)
	gala := tokens.MustGet(token.GALAID)
	gusdc := tokens.MustGet(token.GUSDCID)

	if _, err := registry.CreatePool(gala, gusdc, 30); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	// Same unordered pair in reverse order must be rejected.
	if _, err := registry.CreatePool(gusdc, gala, 5); !apperror.IsCode(err, apperror.CodePoolExists) {
		t.Errorf("want POOL_EXISTS, got %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count = %d, want 1", registry.Count())
	}
}

func TestRegistryLookup(t *testing.T) {
	registry, _, tokens := testRegistry(t)
	gala := tokens.MustGet(token.GALAID)
	gusdc := tokens.MustGet(token.GUSDCID)
	gweth := tokens.MustGet(token.GWETHID)

	if _, err := registry.CreatePool(gala, gusdc, 30); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if _, err := registry.CreatePool(gusdc, gweth, 30); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	if _, ok := registry.Get(token.GUSDCID, token.GALAID); !ok {
		t.Error("lookup in reverse token order failed")
	}
	if _, err := registry.MustGet(token.GALAID, token.GWETHID); !apperror.IsCode(err, apperror.CodePoolNotFound) {
		t.Errorf("want POOL_NOT_FOUND, got %v", err)
	}

	pools := registry.PoolsFor(token.GUSDCID)
	if len(pools) != 2 {
		t.Fatalf("PoolsFor(GUSDC) = %d pools, want 2", len(pools))
	}
	// Creation order is preserved.
	if pools[0].Symbol() != "GALA/GUSDC" {
		t.Errorf("first pool = %s, want GALA/GUSDC", pools[0].Symbol())
	}
}

func TestEventStreamSequence(t *testing.T) {
	registry, stream, tokens := testRegistry(t)
	gala := tokens.MustGet(token.GALAID)
	gusdc := tokens.MustGet(token.GUSDCID)

	sub := stream.Subscribe()

	pool, err := registry.CreatePool(gala, gusdc, 30)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if _, err := pool.AddLiquidity("lp", big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	first := <-sub
	second := <-sub
	if first.Type != domain.EventPoolCreated || second.Type != domain.EventLiquidityAdded {
		t.Errorf("event order = %s, %s", first.Type, second.Type)
	}
	if second.Sequence != first.Sequence+1 {
		t.Errorf("sequence not monotonic: %d then %d", first.Sequence, second.Sequence)
	}

	recent := stream.Recent()
	if len(recent) != 2 {
		t.Errorf("Recent = %d events, want 2", len(recent))
	}
	if stream.Sequence() != second.Sequence {
		t.Errorf("Sequence() = %d, want %d", stream.Sequence(), second.Sequence)
	}
}
