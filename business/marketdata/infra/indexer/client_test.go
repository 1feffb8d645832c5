package indexer

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xmoleclub/gSwap/internal/apperror"
	"github.com/0xmoleclub/gSwap/internal/logger"
)

func testIndexerClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{BaseURL: endpoint},
		logger.New(io.Discard, logger.LevelError, "test", nil))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestListPools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pools" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"pools": [
			{"pair": "GALA/GUSDC", "token0": "GALA", "token1": "GUSDC",
			 "reserve0": "1000000", "reserve1": "40000", "feeBps": 30},
			{"pair": "BAD/POOL", "token0": "BAD", "token1": "POOL",
			 "reserve0": "not-a-number", "reserve1": "1", "feeBps": 30}
		]}`)
	}))
	defer server.Close()

	pools, err := testIndexerClient(t, server.URL).ListPools(context.Background())
	if err != nil {
		t.Fatalf("ListPools: %v", err)
	}

	// The malformed snapshot is skipped, not fatal.
	if len(pools) != 1 {
		t.Fatalf("got %d pools, want 1", len(pools))
	}
	if pools[0].Pair != "GALA/GUSDC" || pools[0].Reserve0.Int64() != 1_000_000 {
		t.Fatalf("pools[0] = %+v", pools[0])
	}
}

func TestPoolsForTokenQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "GALA" {
			t.Errorf("token query = %q, want GALA", got)
		}
		io.WriteString(w, `{"pools": []}`)
	}))
	defer server.Close()

	if _, err := testIndexerClient(t, server.URL).PoolsForToken(context.Background(), "GALA"); err != nil {
		t.Fatalf("PoolsForToken: %v", err)
	}
}

func TestRouteProfitRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/route-profit" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{
			"route": ["GALA", "GUSDC", "GWETH", "GALA"],
			"amountIn": "100",
			"amountOut": "227",
			"profitPercent": "127"
		}`)
	}))
	defer server.Close()

	estimate, err := testIndexerClient(t, server.URL).
		RouteProfit(context.Background(), []string{"GALA", "GUSDC", "GWETH", "GALA"}, big.NewInt(100))
	if err != nil {
		t.Fatalf("RouteProfit: %v", err)
	}
	if estimate.AmountOut.Int64() != 227 {
		t.Fatalf("AmountOut = %s, want 227", estimate.AmountOut)
	}
	if estimate.ProfitPercent.String() != "127" {
		t.Fatalf("ProfitPercent = %s, want 127", estimate.ProfitPercent)
	}
}

func TestServerErrorSurfacesAsProviderUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testIndexerClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.ListTokens(ctx); !apperror.IsCode(err, apperror.CodeProviderUnavailable) {
		t.Fatalf("ListTokens: got %v", err)
	}
	if _, err := client.ListPools(ctx); !apperror.IsCode(err, apperror.CodeProviderUnavailable) {
		t.Fatalf("ListPools: got %v", err)
	}
	if _, err := client.RouteProfit(ctx, []string{"GALA", "GUSDC"}, big.NewInt(1)); !apperror.IsCode(err, apperror.CodeProviderUnavailable) {
		t.Fatalf("RouteProfit: got %v", err)
	}
}
