package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// Default scoring weights and saturation caps.
const (
	defaultNetWeight  = 0.5
	defaultPctWeight  = 0.3
	defaultHopsWeight = 0.2
)

var (
	// Each normalized term saturates at 1.0: net profit at 100 display
	// units of the start token, profit percentage at 5%.
	defaultNetCap = decimal.NewFromInt(100)
	defaultPctCap = decimal.NewFromInt(5)
)

// Ranker scores and orders opportunities:
//
//	score = w1·norm(netProfit) + w2·norm(profitPercent) + w3·(1/hops)
//
// The primary queue is sorted by net profit; the shortlist by score.
// Ties break on fewer hops, then insertion order.
type Ranker struct {
	tokens *token.Registry

	netWeight  float64
	pctWeight  float64
	hopsWeight float64

	netCap decimal.Decimal
	pctCap decimal.Decimal
}

// NewRanker creates a ranker with the default weights and caps.
func NewRanker(tokens *token.Registry) *Ranker {
	return &Ranker{
		tokens:     tokens,
		netWeight:  defaultNetWeight,
		pctWeight:  defaultPctWeight,
		hopsWeight: defaultHopsWeight,
		netCap:     defaultNetCap,
		pctCap:     defaultPctCap,
	}
}

// Score computes and stores the opportunity's composite score.
func (r *Ranker) Score(opp *domain.Opportunity) float64 {
	net := decimal.NewFromBigInt(opp.NetProfit, 0)
	if t, ok := r.tokens.Get(opp.Route.Start()); ok {
		net = decimal.NewFromBigInt(opp.NetProfit, -int32(t.Decimals()))
	}

	score := r.netWeight*normalize(net, r.netCap) +
		r.pctWeight*normalize(opp.ProfitPercent, r.pctCap) +
		r.hopsWeight*(1.0/float64(opp.Route.Hops()))

	opp.Score = score
	return score
}

// normalize maps value onto [0,1], saturating at limit.
func normalize(value, limit decimal.Decimal) float64 {
	if value.Sign() <= 0 {
		return 0
	}
	if value.GreaterThanOrEqual(limit) {
		return 1
	}
	f, _ := value.Div(limit).Float64()
	return f
}

// SortByNetProfit orders the primary queue descending by net profit.
// Stable sort keeps insertion order as the final tiebreak.
func (r *Ranker) SortByNetProfit(opps []*domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		cmp := opps[i].NetProfit.Cmp(opps[j].NetProfit)
		if cmp != 0 {
			return cmp > 0
		}
		return opps[i].Route.Hops() < opps[j].Route.Hops()
	})
}

// Shortlist scores all opportunities and returns the top n by score.
// The input slice is not reordered.
func (r *Ranker) Shortlist(opps []*domain.Opportunity, n int) []*domain.Opportunity {
	ranked := make([]*domain.Opportunity, len(opps))
	copy(ranked, opps)
	for _, opp := range ranked {
		r.Score(opp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Route.Hops() < ranked[j].Route.Hops()
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
