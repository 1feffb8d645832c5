package app

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/token"
)

type stubBalances struct {
	amounts map[token.ID]*big.Int
	err     error
}

func (s *stubBalances) Balance(ctx context.Context, id token.ID) (*big.Int, error) {
	if s.err != nil {
		return nil, s.err
	}
	if amount, ok := s.amounts[id]; ok {
		return new(big.Int).Set(amount), nil
	}
	return big.NewInt(0), nil
}

type stubSettlement struct {
	calls  int
	result *domain.TransactionResult
	err    error
}

func (s *stubSettlement) Settle(ctx context.Context, opp *domain.Opportunity, decision domain.Decision) (*domain.TransactionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func executorOpp(t *testing.T) *domain.Opportunity {
	t.Helper()
	return &domain.Opportunity{
		Route:         mustRoute(t, token.GALAID, token.GUSDCID, token.GWETHID, token.GALAID),
		AmountIn:      big.NewInt(100),
		AmountOut:     big.NewInt(227),
		GrossProfit:   big.NewInt(127),
		ProfitPercent: decimal.NewFromInt(127),
		EstimatedCost: big.NewInt(2),
		NetProfit:     big.NewInt(125),
		Viable:        true,
	}
}

func testExecutor(settle *stubSettlement, balances *stubBalances) *Executor {
	return NewExecutor(balances, settle, flatRegistry(), ExecutorConfig{
		ConfidenceThreshold: 0.6,
		CostCeiling:         decimal.NewFromInt(50),
		MinProfitPercent:    decimal.RequireFromString("0.1"),
	}, nopLogger())
}

func richBalances() *stubBalances {
	return &stubBalances{amounts: map[token.ID]*big.Int{
		token.GALAID: big.NewInt(10_000),
	}}
}

func approvedSettlement() *stubSettlement {
	return &stubSettlement{result: &domain.TransactionResult{
		Success:        true,
		SettlementID:   "sim-1",
		RealizedProfit: big.NewInt(125),
		Cost:           big.NewInt(2),
	}}
}

func TestExecuteConfidenceGate(t *testing.T) {
	ctx := context.Background()

	t.Run("just_below_threshold", func(t *testing.T) {
		settle := approvedSettlement()
		exec := testExecutor(settle, richBalances())

		result := exec.Execute(ctx, executorOpp(t), domain.Decision{Execute: true, Confidence: 0.59})
		if result.Success {
			t.Fatal("confidence 0.59 must be refused at threshold 0.60")
		}
		if !strings.Contains(result.Error, "confidence") {
			t.Fatalf("Error = %q, want confidence refusal", result.Error)
		}
		if settle.calls != 0 {
			t.Fatal("settlement must not be reached on a confidence refusal")
		}
	})

	t.Run("at_threshold", func(t *testing.T) {
		settle := approvedSettlement()
		exec := testExecutor(settle, richBalances())

		result := exec.Execute(ctx, executorOpp(t), domain.Decision{Execute: true, Confidence: 0.60})
		if !result.Success {
			t.Fatalf("confidence 0.60 should proceed, got error %q", result.Error)
		}
		if settle.calls != 1 {
			t.Fatalf("settlement called %d times, want 1", settle.calls)
		}
		if result.Sequence != 1 {
			t.Fatalf("Sequence = %d, want 1", result.Sequence)
		}
	})
}

func TestExecuteOracleRefusal(t *testing.T) {
	settle := approvedSettlement()
	exec := testExecutor(settle, richBalances())

	decision := domain.Conservative("reserves too volatile")
	result := exec.Execute(context.Background(), executorOpp(t), decision)
	if result.Success {
		t.Fatal("refused decision must not execute")
	}
	if !strings.Contains(result.Error, "reserves too volatile") {
		t.Fatalf("Error = %q, want the oracle's reasoning", result.Error)
	}
	if settle.calls != 0 {
		t.Fatal("settlement must not be reached on an oracle refusal")
	}
}

func TestPreflightAccumulatesFailures(t *testing.T) {
	exec := testExecutor(approvedSettlement(), &stubBalances{amounts: map[token.ID]*big.Int{
		token.GALAID: big.NewInt(10),
	}})

	opp := executorOpp(t)
	opp.EstimatedCost = big.NewInt(100)
	opp.ProfitPercent = decimal.RequireFromString("0.05")

	report := exec.Preflight(context.Background(), opp)
	if report.Passed {
		t.Fatal("preflight should fail")
	}
	if len(report.Errors) != 3 {
		t.Fatalf("got %d preflight errors, want 3: %v", len(report.Errors), report.Errors)
	}
}

func TestPreflightPasses(t *testing.T) {
	exec := testExecutor(approvedSettlement(), richBalances())

	report := exec.Preflight(context.Background(), executorOpp(t))
	if !report.Passed {
		t.Fatalf("preflight failed: %v", report.Errors)
	}
}

func TestExecutePreflightFailureSkipsSettlement(t *testing.T) {
	settle := approvedSettlement()
	exec := testExecutor(settle, &stubBalances{amounts: map[token.ID]*big.Int{
		token.GALAID: big.NewInt(10),
	}})

	result := exec.Execute(context.Background(), executorOpp(t), domain.Decision{Execute: true, Confidence: 0.9})
	if result.Success {
		t.Fatal("failed preflight must not execute")
	}
	if !strings.Contains(result.Error, "preflight failed") {
		t.Fatalf("Error = %q, want preflight failure", result.Error)
	}
	if settle.calls != 0 {
		t.Fatal("settlement must not be reached after a failed preflight")
	}
}

func TestSequenceCountsOnlySuccesses(t *testing.T) {
	failing := &stubSettlement{result: domain.Failed("hop 1 reverted")}
	exec := testExecutor(failing, richBalances())

	decision := domain.Decision{Execute: true, Confidence: 0.9}
	if result := exec.Execute(context.Background(), executorOpp(t), decision); result.Success {
		t.Fatal("expected settlement failure")
	}
	if exec.Sequence() != 0 {
		t.Fatalf("Sequence = %d after a failed settlement, want 0", exec.Sequence())
	}

	succeeding := approvedSettlement()
	exec = testExecutor(succeeding, richBalances())
	exec.Execute(context.Background(), executorOpp(t), decision)
	exec.Execute(context.Background(), executorOpp(t), decision)
	if exec.Sequence() != 2 {
		t.Fatalf("Sequence = %d after two settlements, want 2", exec.Sequence())
	}
}

func TestExecuteSettlementTransportFault(t *testing.T) {
	broken := &stubSettlement{err: errors.New("connection refused")}
	exec := testExecutor(broken, richBalances())

	result := exec.Execute(context.Background(), executorOpp(t), domain.Decision{Execute: true, Confidence: 0.9})
	if result.Success {
		t.Fatal("transport fault must not report success")
	}
	if !strings.Contains(result.Error, "settlement unavailable") {
		t.Fatalf("Error = %q, want transport fault", result.Error)
	}
}
