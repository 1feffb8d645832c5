// Package domain contains the arbitrage value objects: routes,
// opportunities, oracle decisions and settlement results.
package domain

import (
	"strings"

	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Route is a cyclic trade path: an ordered token sequence whose first
// and last entries are the same token. Each consecutive pair is one
// hop through the pool connecting the two tokens. The minimum cycle is
// triangular (3 hops).
type Route struct {
	tokens []token.ID
}

// NewRoute validates and builds a route. The sequence must close on
// its start token, span at least 3 hops, and visit no intermediate
// token twice.
func NewRoute(tokens []token.ID) (Route, error) {
	if len(tokens) < 4 {
		return Route{}, apperror.Validation(apperror.CodeInvalidRoute, "route needs at least 3 hops")
	}
	if !tokens[0].Equals(tokens[len(tokens)-1]) {
		return Route{}, apperror.Validation(apperror.CodeInvalidRoute, "route must return to its start token")
	}
	seen := make(map[token.ID]bool, len(tokens))
	for _, id := range tokens[:len(tokens)-1] {
		if seen[id] {
			return Route{}, apperror.Validation(apperror.CodeInvalidRoute, "route revisits "+id.String())
		}
		seen[id] = true
	}

	cp := make([]token.ID, len(tokens))
	copy(cp, tokens)
	return Route{tokens: cp}, nil
}

// Tokens returns a copy of the token sequence.
func (r Route) Tokens() []token.ID {
	cp := make([]token.ID, len(r.tokens))
	copy(cp, r.tokens)
	return cp
}

// Start returns the route's start (and end) token.
func (r Route) Start() token.ID {
	return r.tokens[0]
}

// Hops returns the number of edges in the route.
func (r Route) Hops() int {
	if len(r.tokens) == 0 {
		return 0
	}
	return len(r.tokens) - 1
}

// Hop returns the (in, out) token pair of hop i.
func (r Route) Hop(i int) (token.ID, token.ID) {
	return r.tokens[i], r.tokens[i+1]
}

// Describe renders the route using the given registry's symbols, e.g.
// "GALA -> GUSDC -> GWETH -> GALA".
func (r Route) Describe(tokens *token.Registry) string {
	parts := make([]string, 0, len(r.tokens))
	for _, id := range r.tokens {
		if t, ok := tokens.Get(id); ok {
			parts = append(parts, t.Symbol())
		} else {
			parts = append(parts, id.String())
		}
	}
	return strings.Join(parts, " -> ")
}

// Key returns a string identity for this exact token sequence.
func (r Route) Key() string {
	parts := make([]string, 0, len(r.tokens))
	for _, id := range r.tokens {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ">")
}

// CanonicalKey returns a rotation-invariant identity: the same cycle
// discovered from different start tokens maps to one key, while the
// reverse orientation (a genuinely different trade) keeps its own.
func (r Route) CanonicalKey() string {
	cycle := r.tokens[:len(r.tokens)-1]
	n := len(cycle)

	minIdx := 0
	for i := 1; i < n; i++ {
		if cycle[i].Less(cycle[minIdx]) {
			minIdx = i
		}
	}

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, cycle[(minIdx+i)%n].String())
	}
	return strings.Join(parts, ">")
}
