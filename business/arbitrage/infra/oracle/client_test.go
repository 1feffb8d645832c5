package oracle

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

func testOpportunity(t *testing.T) *domain.Opportunity {
	t.Helper()
	route, err := domain.NewRoute([]token.ID{token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID})
	if err != nil {
		t.Fatalf("NewRoute: %v", err)
	}
	return &domain.Opportunity{
		Route:         route,
		AmountIn:      big.NewInt(100),
		AmountOut:     big.NewInt(227),
		GrossProfit:   big.NewInt(127),
		ProfitPercent: decimal.NewFromInt(127),
		EstimatedCost: big.NewInt(2),
		NetProfit:     big.NewInt(125),
		Viable:        true,
	}
}

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Endpoint:          endpoint,
		RequestTimeout:    100 * time.Millisecond,
		MaxRetries:        3,
		InitialBackoff:    time.Millisecond,
		RequestsPerMinute: 6000,
	}, ammapp.NewPoolRegistry(ammapp.NewEventStream(0)), token.DefaultRegistry(),
		logger.New(io.Discard, logger.LevelError, "test", nil))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestDecideSuccess(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/v1/decisions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"execute": true,
			"confidence": 0.82,
			"reasoning": "healthy margin",
			"adjustedAmount": "80",
			"maxSlippageBps": 150,
			"urgency": "medium",
			"risks": ["reserve drift"]
		}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	decision, err := client.Decide(context.Background(), testOpportunity(t))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if !decision.Execute {
		t.Fatal("Execute = false, want true")
	}
	if decision.Confidence != 0.82 {
		t.Fatalf("Confidence = %f, want 0.82", decision.Confidence)
	}
	if decision.AdjustedAmount == nil || decision.AdjustedAmount.Int64() != 80 {
		t.Fatalf("AdjustedAmount = %v, want 80", decision.AdjustedAmount)
	}
	if decision.MaxSlippageBps != 150 {
		t.Fatalf("MaxSlippageBps = %d, want 150", decision.MaxSlippageBps)
	}
	if decision.Urgency != domain.UrgencyMedium {
		t.Fatalf("Urgency = %s, want medium", decision.Urgency)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("server saw %d requests, want 1", got)
	}
}

func TestDecideTimeoutsExhaustRetries(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	decision, err := client.Decide(context.Background(), testOpportunity(t))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if decision.Execute {
		t.Fatal("exhausted retries must fail closed")
	}
	if decision.Confidence != 0 {
		t.Fatalf("Confidence = %f, want 0", decision.Confidence)
	}
	if !strings.Contains(decision.Reasoning, "retries exhausted") {
		t.Fatalf("Reasoning = %q, want retry exhaustion", decision.Reasoning)
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("server saw %d requests, want exactly 3 attempts", got)
	}
}

func TestDecideServerErrorsExhaustRetries(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	decision, _ := client.Decide(context.Background(), testOpportunity(t))

	if decision.Execute {
		t.Fatal("server errors must fail closed")
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("server saw %d requests, want 3", got)
	}
}

func TestDecideMalformedResponseFailsClosedImmediately(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing_execute", body: `{"confidence": 0.9}`},
		{name: "missing_confidence", body: `{"execute": true}`},
		{name: "confidence_out_of_range", body: `{"execute": true, "confidence": 1.5}`},
		{name: "bad_adjusted_amount", body: `{"execute": true, "confidence": 0.9, "adjustedAmount": "lots"}`},
		{name: "unknown_urgency", body: `{"execute": true, "confidence": 0.9, "urgency": "panic"}`},
		{name: "not_json", body: `approved!`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			client := testClient(t, server.URL)
			decision, err := client.Decide(context.Background(), testOpportunity(t))
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}

			if decision.Execute {
				t.Fatal("malformed response must fail closed")
			}
			// Malformed output is deterministic, not transient: no retry.
			if got := requests.Load(); got != 1 {
				t.Fatalf("server saw %d requests, want 1", got)
			}
		})
	}
}

func TestDecideContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	decision, err := client.Decide(ctx, testOpportunity(t))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision.Execute {
		t.Fatal("cancellation must fail closed")
	}
}
