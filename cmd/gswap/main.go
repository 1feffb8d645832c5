// Package main is the entry point for the gSwap arbitrage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/0xmoleclub/gSwap/business/amm"
	ammDI "github.com/0xmoleclub/gSwap/business/amm/di"
	"github.com/0xmoleclub/gSwap/business/arbitrage"
	arbitrageApp "github.com/0xmoleclub/gSwap/business/arbitrage/app"
	arbitrageDI "github.com/0xmoleclub/gSwap/business/arbitrage/di"
	"github.com/0xmoleclub/gSwap/business/marketdata"
	"github.com/0xmoleclub/gSwap/internal/apm"
	"github.com/0xmoleclub/gSwap/internal/config"
	"github.com/0xmoleclub/gSwap/internal/health"
	"github.com/0xmoleclub/gSwap/internal/httpclient"
	"github.com/0xmoleclub/gSwap/internal/logger"
	"github.com/0xmoleclub/gSwap/internal/metrics"
	"github.com/0xmoleclub/gSwap/internal/monolith"
	"github.com/0xmoleclub/gSwap/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const healthPort = 8081

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	mode := flag.String("mode", "start", "Run mode: start, scan or status")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")

	// Scan parameter overrides; empty/negative values keep the config.
	minProfit := flag.Float64("min-profit-percent", -1, "Minimum net profit percent")
	maxHops := flag.Int("max-hops", 0, "Maximum hops per cycle")
	pollInterval := flag.Duration("poll-interval", 0, "Scan poll interval")
	oracleEndpoint := flag.String("oracle-endpoint", "", "Advisory oracle endpoint")
	oracleKey := flag.String("oracle-api-key", "", "Advisory oracle API key")
	autoExecute := flag.Bool("auto-execute", false, "Execute approved opportunities")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gswap %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default for the long-running mode; scan and status are
	// one-shot and always print to stdout.
	tuiMode := !*cliMode && *mode == "start"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	overrides := flagOverrides{
		minProfit:      *minProfit,
		maxHops:        *maxHops,
		pollInterval:   *pollInterval,
		oracleEndpoint: *oracleEndpoint,
		oracleKey:      *oracleKey,
		autoExecute:    *autoExecute,
	}

	if err := run(ctx, *configPath, *mode, tuiMode, overrides); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flagOverrides struct {
	minProfit      float64
	maxHops        int
	pollInterval   time.Duration
	oracleEndpoint string
	oracleKey      string
	autoExecute    bool
}

func (o flagOverrides) apply(cfg *config.Config) {
	if o.minProfit >= 0 {
		cfg.Arbitrage.MinProfitPercent = o.minProfit
	}
	if o.maxHops > 0 {
		cfg.Arbitrage.MaxHops = o.maxHops
	}
	if o.pollInterval > 0 {
		cfg.Arbitrage.PollInterval = o.pollInterval
	}
	if o.oracleEndpoint != "" {
		cfg.Oracle.Endpoint = o.oracleEndpoint
	}
	if o.oracleKey != "" {
		cfg.Oracle.APIKey = o.oracleKey
	}
	if o.autoExecute {
		cfg.Arbitrage.AutoExecute = true
	}
}

func run(ctx context.Context, configPath, mode string, tuiMode bool, overrides flagOverrides) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrides.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg.Arbitrage.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting gSwap arbitrage engine",
			"version", version,
			"environment", cfg.App.Environment,
			"mode", mode,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Status reads the probe endpoint of an already-running engine; it
	// never boots one of its own.
	if mode == "status" {
		return runStatus(ctx)
	}

	// Health endpoints only make sense for the long-running mode.
	var healthServer *health.Server
	if mode == "start" {
		healthServer = health.NewServer(healthPort, version)
		if err := healthServer.Start(); err != nil {
			log.Warn(ctx, "failed to start health server", "error", err)
		} else {
			log.Info(ctx, "health server started", "port", healthPort)
		}
		defer healthServer.Stop(ctx)
	}

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	marketdataModule := &marketdata.Module{}
	defer marketdataModule.Close()

	// Module order matters: the pool registry must exist before the
	// market data feed and the scanner bind to it.
	modules := []monolith.Module{
		&amm.Module{},
		marketdataModule,
		&arbitrage.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if healthServer != nil {
		healthServer.RegisterCheck("orchestrator", func(ctx context.Context) (bool, string) {
			status := arbitrageDI.GetOrchestrator(mono.Services()).Status()
			detail := fmt.Sprintf("%s cycles=%d routes=%d opportunities=%d executions=%d",
				status.State, status.Cycles, status.RoutesDiscovered,
				status.OpportunitiesFound, status.Executions)
			switch status.State {
			case arbitrageApp.StateRunning, arbitrageApp.StateScanning, arbitrageApp.StateEvaluating:
				return true, detail
			default:
				return false, detail
			}
		})
		healthServer.RegisterCheck("pools", func(ctx context.Context) (bool, string) {
			count := ammDI.GetPoolRegistry(mono.Services()).Count()
			if count == 0 {
				return false, "no pools registered"
			}
			return true, fmt.Sprintf("%d pools", count)
		})
	}

	if tuiMode {
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			orch := arbitrageDI.GetOrchestrator(mono.Services())
			if err := orch.Start(ctx); err != nil {
				return err
			}
			go pushStatus(ctx, orch)
			return nil
		}
		stopFunc := func() {
			arbitrageDI.GetOrchestrator(mono.Services()).Stop()
		}
		return runTUI(ctx, startFunc, stopFunc)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	orch := arbitrageDI.GetOrchestrator(mono.Services())

	switch mode {
	case "start":
		return runCLI(ctx, orch, log)
	case "scan":
		return runScan(ctx, orch)
	default:
		return fmt.Errorf("unknown mode %q (want start, scan or status)", mode)
	}
}

func runCLI(ctx context.Context, orch *arbitrageApp.Orchestrator, log *logger.Logger) error {
	log.Info(ctx, "all modules started, beginning arbitrage scanning")

	if err := orch.Start(ctx); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	orch.Stop()
	return nil
}

// runScan performs a single scan cycle and exits; the reporter prints
// the findings.
func runScan(ctx context.Context, orch *arbitrageApp.Orchestrator) error {
	report := orch.RunCycle(ctx)
	fmt.Printf("cycle complete: %d routes, %d simulations, %d viable, %d executed (%s)\n",
		report.Routes, report.Simulations, report.Viable, report.Executed,
		report.Duration.Round(time.Millisecond))
	return nil
}

// runStatus queries the probe endpoint of the running engine and
// prints its report.
func runStatus(ctx context.Context) error {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("health"),
		httpclient.WithBaseURL(fmt.Sprintf("http://127.0.0.1:%d", healthPort)),
		httpclient.WithRequestTimeout(2*time.Second),
	)
	if err != nil {
		return err
	}

	var report health.Report
	if _, err := client.NewRequest().SetResult(&report).Get(ctx, "/health"); err != nil {
		return fmt.Errorf("no running engine on port %d (start one with -mode start): %w", healthPort, err)
	}

	fmt.Printf("status:   %s\n", report.Status)
	fmt.Printf("version:  %s\n", report.Version)
	fmt.Printf("uptime:   %s\n", report.Uptime)

	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check := report.Checks[name]
		mark := "ok"
		if !check.Healthy {
			mark = "FAIL"
		}
		fmt.Printf("%-12s %-4s %s\n", name+":", mark, check.Detail)
	}
	return nil
}

// pushStatus feeds orchestrator counters to the TUI once a second.
func pushStatus(ctx context.Context, orch *arbitrageApp.Orchestrator) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := orch.Status()
			ui.Send(ui.StatusMsg{
				State:              string(status.State),
				Cycles:             status.Cycles,
				RoutesDiscovered:   status.RoutesDiscovered,
				OpportunitiesFound: status.OpportunitiesFound,
				Executions:         status.Executions,
			})
		}
	}
}

func runTUI(ctx context.Context, startFunc func() error, stopFunc func()) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program immediately (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()
		stopFunc()
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
