package app

import (
	"sync"
	"time"

	"github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// pairKey identifies an unordered token pair in canonical order.
type pairKey struct {
	lo token.ID
	hi token.ID
}

func newPairKey(a, b token.ID) pairKey {
	if b.Less(a) {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// PoolRegistry owns the set of pools, guaranteeing one pool per
// unordered token pair. Iteration order is creation order so that
// route discovery is deterministic for a fixed pool set.
type PoolRegistry struct {
	mu    sync.RWMutex
	pools map[pairKey]*domain.Pool
	order []pairKey
	sink  EventSink
}

// NewPoolRegistry creates an empty registry publishing to sink.
func NewPoolRegistry(sink EventSink) *PoolRegistry {
	return &PoolRegistry{
		pools: make(map[pairKey]*domain.Pool),
		sink:  sink,
	}
}

// CreatePool creates the pool for the given pair. Fails when a pool
// for the unordered pair already exists.
func (r *PoolRegistry) CreatePool(a, b *token.Token, feeBps int64) (*domain.Pool, error) {
	pool, err := domain.NewPool(a, b, feeBps, r.sink.Publish)
	if err != nil {
		return nil, err
	}

	key := newPairKey(a.ID(), b.ID())

	r.mu.Lock()
	if _, exists := r.pools[key]; exists {
		r.mu.Unlock()
		return nil, apperror.Validation(apperror.CodePoolExists, pool.Symbol())
	}
	r.pools[key] = pool
	r.order = append(r.order, key)
	r.mu.Unlock()

	r.sink.Publish(domain.Event{
		Type:   domain.EventPoolCreated,
		Pool:   pool.Symbol(),
		Token0: pool.Token0().ID(),
		Token1: pool.Token1().ID(),
		At:     time.Now().UTC(),
	})

	return pool, nil
}

// Get returns the pool connecting the two tokens, in either order.
func (r *PoolRegistry) Get(a, b token.ID) (*domain.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[newPairKey(a, b)]
	return pool, ok
}

// MustGet returns the pool or fails with a pool-not-found error.
func (r *PoolRegistry) MustGet(a, b token.ID) (*domain.Pool, error) {
	pool, ok := r.Get(a, b)
	if !ok {
		return nil, apperror.NotFound(apperror.CodePoolNotFound, a.String()+"/"+b.String())
	}
	return pool, nil
}

// PoolsFor returns all pools containing the given token, in creation
// order.
func (r *PoolRegistry) PoolsFor(id token.ID) []*domain.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Pool
	for _, key := range r.order {
		pool := r.pools[key]
		if pool.Has(id) {
			out = append(out, pool)
		}
	}
	return out
}

// All returns every pool in creation order.
func (r *PoolRegistry) All() []*domain.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Pool, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.pools[key])
	}
	return out
}

// Count returns the number of pools.
func (r *PoolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}
