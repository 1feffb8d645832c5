package app

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	ammapp "github.com/0xmoleclub/gSwap/business/amm/app"
	"github.com/0xmoleclub/gSwap/business/arbitrage/domain"
	"github.com/0xmoleclub/gSwap/internal/apm"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/token"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateScanning   State = "scanning"
	StateEvaluating State = "evaluating"
	StateStopped    State = "stopped"
)

const defaultMaxErrors = 32

var tracer = apm.NewTracer("arbitrage")

type scanMetrics struct {
	cycles        metric.Int64Counter
	opportunities metric.Int64Counter
	executions    metric.Int64Counter
}

func newScanMetrics() (*scanMetrics, error) {
	meter := otel.Meter("arbitrage")
	m := &scanMetrics{}
	var err error
	if m.cycles, err = meter.Int64Counter(
		"scan_cycles_total",
		metric.WithDescription("Completed scan cycles"),
	); err != nil {
		return nil, err
	}
	if m.opportunities, err = meter.Int64Counter(
		"opportunities_found_total",
		metric.WithDescription("Simulated opportunities above the profit floor"),
	); err != nil {
		return nil, err
	}
	if m.executions, err = meter.Int64Counter(
		"executions_total",
		metric.WithDescription("Settlements submitted, by outcome"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// OrchestratorConfig holds the scan loop parameters.
type OrchestratorConfig struct {
	PollInterval     time.Duration
	MaxHops          int
	MaxOpportunities int
	AutoExecute      bool

	// ProbeAmounts are simulation input sizes in display units of each
	// start token, scaled by the token's decimals at simulation time.
	ProbeAmounts []decimal.Decimal

	MaxErrors int
}

// ScanReport summarizes one completed scan cycle.
type ScanReport struct {
	Cycle         uint64
	TokensScanned int
	Routes        int
	Simulations   int
	Viable        int
	Shortlisted   int
	Executed      int
	Best          *domain.Opportunity
	Duration      time.Duration
}

// Status is a point-in-time snapshot of orchestrator counters.
type Status struct {
	State              State
	Cycles             uint64
	RoutesDiscovered   uint64
	OpportunitiesFound uint64
	Executions         uint64
	LastScan           time.Time
	Errors             []string
}

// Orchestrator drives the poll -> discover -> simulate -> rank ->
// decide -> execute loop. Cycles never overlap: a slow cycle delays
// the next tick instead of running concurrently with it.
type Orchestrator struct {
	tokens    *token.Registry
	pools     *ammapp.PoolRegistry
	simulator *Simulator
	ranker    *Ranker
	oracle    OracleClient
	executor  *Executor
	reporter  Reporter
	cfg       OrchestratorConfig
	log       logger.LoggerInterface
	metrics   *scanMetrics

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	cycles             atomic.Uint64
	routesDiscovered   atomic.Uint64
	opportunitiesFound atomic.Uint64
	executions         atomic.Uint64

	statusMu sync.Mutex
	lastScan time.Time
	errors   []string
}

// NewOrchestrator wires the scan loop.
func NewOrchestrator(
	tokens *token.Registry,
	pools *ammapp.PoolRegistry,
	simulator *Simulator,
	ranker *Ranker,
	oracle OracleClient,
	executor *Executor,
	reporter Reporter,
	cfg OrchestratorConfig,
	log logger.LoggerInterface,
) *Orchestrator {
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = defaultMaxErrors
	}
	// A meter registration failure only costs the counters.
	m, err := newScanMetrics()
	if err != nil {
		log.Warn(context.Background(), "scan metrics unavailable", "error", err)
	}
	return &Orchestrator{
		tokens:    tokens,
		pools:     pools,
		simulator: simulator,
		ranker:    ranker,
		oracle:    oracle,
		executor:  executor,
		reporter:  reporter,
		cfg:       cfg,
		log:       log,
		metrics:   m,
		state:     StateIdle,
	}
}

// Start transitions Idle -> Running, performs one immediate cycle and
// arms the fixed-interval timer. Returns an error when already
// running.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateIdle && o.state != StateStopped {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already %s", o.state)
	}
	loopCtx, cancel := context.WithCancel(ctx)
	o.state = StateRunning
	o.cancel = cancel
	o.done = make(chan struct{})
	o.mu.Unlock()

	go o.loop(loopCtx)
	return nil
}

// Stop disarms the timer. In-flight oracle or settlement calls run to
// their own timeouts; only future ticks are prevented.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	o.mu.Lock()
	o.state = StateStopped
	o.mu.Unlock()
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer close(o.done)

	o.runGuarded(ctx)

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.runGuarded(ctx)
		}
	}
}

// runGuarded runs one cycle, catching failures so the loop survives.
func (o *Orchestrator) runGuarded(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			o.recordError(fmt.Sprintf("scan panic: %v", r))
			o.log.Error(ctx, "scan cycle panicked", "panic", r)
		}
		o.setState(StateRunning)
	}()

	report := o.RunCycle(ctx)
	if o.reporter != nil {
		o.reporter.ReportScan(ctx, report)
	}
}

// RunCycle performs a single scan cycle synchronously and returns its
// report. Used by the continuous loop and by the one-shot scan
// command.
func (o *Orchestrator) RunCycle(ctx context.Context) *ScanReport {
	started := time.Now()
	cycle := o.cycles.Add(1)
	o.setState(StateScanning)

	ctx, span := tracer.StartSpanFromContext(ctx, "scan_cycle")
	defer span.End()

	report := &ScanReport{Cycle: cycle}

	graph := BuildGraph(o.pools.All())
	ids := o.tokens.IDs()
	report.TokensScanned = len(ids)

	// Discover cycles from every token, deduplicating rotations of the
	// same directed cycle.
	seen := make(map[string]bool)
	var routes []domain.Route
	for _, id := range ids {
		for _, route := range graph.FindCycles(id, o.cfg.MaxHops) {
			key := route.CanonicalKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			routes = append(routes, route)
		}
	}
	report.Routes = len(routes)
	o.routesDiscovered.Add(uint64(len(routes)))

	var viable []*domain.Opportunity
	for _, route := range routes {
		probe, err := o.probeAmounts(route.Start())
		if err != nil {
			o.recordError(err.Error())
			continue
		}
		for _, amountIn := range probe {
			report.Simulations++
			opp := o.simulator.Simulate(route, amountIn)
			if o.simulator.MeetsFloor(opp) {
				viable = append(viable, opp)
			}
		}
	}
	report.Viable = len(viable)
	o.opportunitiesFound.Add(uint64(len(viable)))
	if o.metrics != nil {
		o.metrics.opportunities.Add(ctx, int64(len(viable)))
	}

	o.setState(StateEvaluating)

	o.ranker.SortByNetProfit(viable)
	if len(viable) > 0 {
		report.Best = viable[0]
	}

	shortlist := o.ranker.Shortlist(viable, o.cfg.MaxOpportunities)
	report.Shortlisted = len(shortlist)

	for _, opp := range shortlist {
		if ctx.Err() != nil {
			break
		}
		o.evaluate(ctx, opp, report)
	}

	report.Duration = time.Since(started)
	if o.metrics != nil {
		o.metrics.cycles.Add(ctx, 1)
	}
	o.statusMu.Lock()
	o.lastScan = time.Now().UTC()
	o.statusMu.Unlock()

	o.log.Info(ctx, "scan cycle complete",
		"cycle", cycle,
		"routes", report.Routes,
		"viable", report.Viable,
		"executed", report.Executed,
		"duration", report.Duration.String())

	return report
}

// evaluate queries the oracle for one opportunity and executes on
// approval when auto-execute is enabled.
func (o *Orchestrator) evaluate(ctx context.Context, opp *domain.Opportunity, report *ScanReport) {
	decision, err := o.oracle.Decide(ctx, opp)
	if err != nil {
		// The client already resolves failures to a conservative
		// decision; an error here is a programming fault, still
		// treated as a refusal.
		o.recordError("oracle error: " + err.Error())
		decision = domain.Conservative("oracle error: " + err.Error())
	}

	if o.reporter != nil {
		o.reporter.ReportDecision(ctx, opp, decision)
	}

	if !decision.Execute {
		o.log.Info(ctx, "opportunity skipped",
			"route", opp.Route.Describe(o.tokens),
			"reason", decision.Reasoning)
		return
	}
	if !o.cfg.AutoExecute {
		o.log.Info(ctx, "auto-execute disabled, logging approved opportunity",
			"route", opp.Route.Describe(o.tokens),
			"confidence", decision.Confidence)
		return
	}

	result := o.executor.Execute(ctx, opp, decision)
	if result.Success {
		report.Executed++
		o.executions.Add(1)
	} else {
		o.recordError("execution failed: " + result.Error)
	}
	if o.metrics != nil {
		o.metrics.executions.Add(ctx, 1,
			metric.WithAttributes(attribute.Bool("success", result.Success)))
	}
	if o.reporter != nil {
		o.reporter.ReportExecution(ctx, opp, result)
	}
}

// probeAmounts scales the configured probe sizes by the start token's
// decimals.
func (o *Orchestrator) probeAmounts(start token.ID) ([]*big.Int, error) {
	t, ok := o.tokens.Get(start)
	if !ok {
		return nil, fmt.Errorf("probe amounts: unknown token %s", start)
	}

	out := make([]*big.Int, 0, len(o.cfg.ProbeAmounts))
	for _, probe := range o.cfg.ProbeAmounts {
		native := probe.Shift(int32(t.Decimals())).Floor().BigInt()
		if native.Sign() > 0 {
			out = append(out, native)
		}
	}
	return out, nil
}

// Status reports the orchestrator's counters.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	state := o.state
	o.mu.Unlock()

	o.statusMu.Lock()
	lastScan := o.lastScan
	errs := make([]string, len(o.errors))
	copy(errs, o.errors)
	o.statusMu.Unlock()

	return Status{
		State:              state,
		Cycles:             o.cycles.Load(),
		RoutesDiscovered:   o.routesDiscovered.Load(),
		OpportunitiesFound: o.opportunitiesFound.Load(),
		Executions:         o.executions.Load(),
		LastScan:           lastScan,
		Errors:             errs,
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	if o.state != StateStopped {
		o.state = s
	}
	o.mu.Unlock()
}

func (o *Orchestrator) recordError(msg string) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	o.errors = append(o.errors, msg)
	if len(o.errors) > o.cfg.MaxErrors {
		o.errors = o.errors[len(o.errors)-o.cfg.MaxErrors:]
	}
}
