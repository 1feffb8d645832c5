package app

import (
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func rankerOpp(t *testing.T, net int64, pct string, hops int) *domain.Opportunity {
	t.Helper()

	var route domain.Route
	switch hops {
	case 3:
		route = mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID)
	case 4:
		route = mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GUSDTID, token.GALAID)
	default:
		t.Fatalf("unsupported hop count %d", hops)
	}

	return &domain.Opportunity{
		Route:         route,
		AmountIn:      big.NewInt(100),
		NetProfit:     big.NewInt(net),
		ProfitPercent: decimal.RequireFromString(pct),
		Viable:        true,
	}
}

func TestSortByNetProfit(t *testing.T) {
	r := NewRanker(flatRegistry())

	small := rankerOpp(t, 50, "1", 3)
	large := rankerOpp(t, 100, "1", 3)
	smallLonger := rankerOpp(t, 50, "1", 4)

	opps := []*domain.Opportunity{small, large, smallLonger}
	r.SortByNetProfit(opps)

	if opps[0] != large {
		t.Fatalf("opps[0].NetProfit = %s, want 100", opps[0].NetProfit)
	}
	// Equal net profit: fewer hops wins.
	if opps[1] != small || opps[2] != smallLonger {
		t.Fatal("hop-count tiebreak not applied")
	}
}

func TestSortByNetProfitStable(t *testing.T) {
	r := NewRanker(flatRegistry())

	first := rankerOpp(t, 50, "1", 3)
	second := rankerOpp(t, 50, "2", 3)

	opps := []*domain.Opportunity{first, second}
	r.SortByNetProfit(opps)

	// Same net profit and hops: insertion order is preserved.
	if opps[0] != first || opps[1] != second {
		t.Fatal("equal opportunities were reordered")
	}
}

func TestScoreSaturation(t *testing.T) {
	r := NewRanker(flatRegistry())

	// Net profit and percentage both beyond their caps: each term
	// contributes its full weight.
	opp := rankerOpp(t, 1000, "10", 3)
	got := r.Score(opp)
	want := 0.5 + 0.3 + 0.2/3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %f, want %f", got, want)
	}
	if opp.Score != got {
		t.Fatal("Score was not stored on the opportunity")
	}
}

func TestScoreZeroNet(t *testing.T) {
	r := NewRanker(flatRegistry())

	opp := rankerOpp(t, 0, "0", 4)
	got := r.Score(opp)
	want := 0.2 / 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %f, want %f", got, want)
	}
}

func TestShortlist(t *testing.T) {
	r := NewRanker(flatRegistry())

	// Scores: strong ~0.867, middling ~0.377, long ~0.85.
	strong := rankerOpp(t, 200, "10", 3)
	middling := rankerOpp(t, 50, "1", 3)
	long := rankerOpp(t, 100, "5", 4)

	opps := []*domain.Opportunity{middling, strong, long}
	top := r.Shortlist(opps, 2)

	if len(top) != 2 {
		t.Fatalf("Shortlist returned %d, want 2", len(top))
	}
	if top[0] != strong || top[1] != long {
		t.Fatalf("Shortlist order = [%f, %f]", top[0].Score, top[1].Score)
	}

	// The input slice keeps its own order.
	if opps[0] != middling || opps[1] != strong || opps[2] != long {
		t.Fatal("Shortlist reordered its input")
	}
}

func TestShortlistSmallInput(t *testing.T) {
	r := NewRanker(flatRegistry())

	only := rankerOpp(t, 50, "1", 3)
	top := r.Shortlist([]*domain.Opportunity{only}, 3)
	if len(top) != 1 || top[0] != only {
		t.Fatalf("Shortlist of one = %d entries", len(top))
	}

	if top := r.Shortlist(nil, 3); len(top) != 0 {
		t.Fatalf("Shortlist of nil = %d entries", len(top))
	}
}
