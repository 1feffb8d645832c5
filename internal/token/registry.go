package token

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known tokens.
// Listing order is insertion order so downstream consumers (route
// discovery in particular) see a deterministic token set.
type Registry struct {
	byID     map[ID]*Token
	bySymbol map[string]*Token
	order    []ID
	mu       sync.RWMutex
}

// NewRegistry creates a new empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[ID]*Token),
		bySymbol: make(map[string]*Token),
	}
}

// Register adds a token to the registry.
// Panics if a token with the same ID is already registered.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("token: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := t.ID()
	if _, exists := r.byID[id]; exists {
		panic(fmt.Sprintf("token: %s already registered", id))
	}

	r.byID[id] = t
	r.bySymbol[t.Symbol()] = t
	r.order = append(r.order, id)
}

// Get retrieves a token by its ID.
func (r *Registry) Get(id ID) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	return t, ok
}

// MustGet retrieves a token by its ID, panics if not found.
func (r *Registry) MustGet(id ID) *Token {
	t, ok := r.Get(id)
	if !ok {
		panic(fmt.Sprintf("token: %s not found in registry", id))
	}
	return t
}

// GetBySymbol retrieves a token by symbol.
func (r *Registry) GetBySymbol(symbol string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySymbol[symbol]
	return t, ok
}

// All returns all registered tokens in insertion order.
func (r *Registry) All() []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Token, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.byID[id])
	}
	return result
}

// IDs returns all registered token IDs in insertion order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ID, len(r.order))
	copy(result, r.order)
	return result
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Has returns true if a token with the given ID is registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}
