package app

import (
	ammdomain "github.com/0xmoleclub/gSwap/business/amm/domain"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Graph is an undirected token adjacency structure derived from the
// current pool set: an edge exists iff a pool connects the two tokens.
// Adjacency lists keep pool creation order, making discovery output
// deterministic for a fixed pool set.
type Graph struct {
	adj map[token.ID][]token.ID
}

// BuildGraph derives the token graph from pools.
func BuildGraph(pools []*ammdomain.Pool) *Graph {
	g := &Graph{adj: make(map[token.ID][]token.ID)}
	for _, pool := range pools {
		a := pool.Token0().ID()
		b := pool.Token1().ID()
		g.addEdge(a, b)
		g.addEdge(b, a)
	}
	return g
}

func (g *Graph) addEdge(from, to token.ID) {
	for _, existing := range g.adj[from] {
		if existing.Equals(to) {
			return
		}
	}
	g.adj[from] = append(g.adj[from], to)
}

// Neighbors returns the adjacency list of id in insertion order.
func (g *Graph) Neighbors(id token.ID) []token.ID {
	return g.adj[id]
}

// FindCycles performs a depth-limited DFS from start, returning every
// simple cycle of at least 3 and at most maxHops edges. Intermediate
// tokens are never revisited; only the start token may close the
// cycle. Both orientations of a cycle are returned since fees make
// them distinct trades.
func (g *Graph) FindCycles(start token.ID, maxHops int) []domain.Route {
	if maxHops < 3 {
		return nil
	}

	var routes []domain.Route
	visited := map[token.ID]bool{start: true}
	path := []token.ID{start}

	var dfs func(current token.ID, hops int)
	dfs = func(current token.ID, hops int) {
		for _, next := range g.adj[current] {
			if next.Equals(start) {
				if hops+1 >= 3 {
					cycle := make([]token.ID, len(path)+1)
					copy(cycle, path)
					cycle[len(path)] = start
					if route, err := domain.NewRoute(cycle); err == nil {
						routes = append(routes, route)
					}
				}
				continue
			}
			if visited[next] || hops+1 >= maxHops {
				continue
			}
			visited[next] = true
			path = append(path, next)
			dfs(next, hops+1)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	dfs(start, 0)

	return routes
}
