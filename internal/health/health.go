// Package health serves liveness and readiness probes for the engine.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const checkTimeout = 5 * time.Second

// CheckFunc probes one dependency. It returns whether the dependency is
// usable and a short human-readable detail.
type CheckFunc func(ctx context.Context) (bool, string)

// CheckResult is the recorded outcome of a single check.
type CheckResult struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Report is the /health response body.
type Report struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    string                 `json:"uptime"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Server exposes /health, /ready and /live on its own port so probes
// keep working even when the engine is busy inside a scan cycle.
type Server struct {
	port    int
	version string
	started time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc

	srv *http.Server
}

// NewServer creates a probe server; call Start to bind it.
func NewServer(port int, version string) *Server {
	return &Server{
		port:    port,
		version: version,
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck adds or replaces a named readiness check. Checks may be
// registered before or after Start.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.mu.Lock()
	s.checks[name] = check
	s.mu.Unlock()
}

// Start binds the listener and serves probes in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)

	s.started = time.Now()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: checkTimeout,
	}

	go func() {
		// Probes are optional; a bind failure must not take the engine
		// down, so the error is swallowed here.
		_ = s.srv.ListenAndServe()
	}()

	return nil
}

// Stop shuts the probe server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// runChecks executes every registered check against a bounded context
// and reports whether all of them passed.
func (s *Server) runChecks(ctx context.Context) (map[string]CheckResult, bool) {
	s.mu.RLock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for name, fn := range s.checks {
		checks[name] = fn
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make(map[string]CheckResult, len(checks))
	healthy := true
	for name, fn := range checks {
		ok, detail := fn(ctx)
		results[name] = CheckResult{Healthy: ok, Detail: detail}
		if !ok {
			healthy = false
		}
	}
	return results, healthy
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	results, healthy := s.runChecks(r.Context())

	report := Report{
		Status:    "ok",
		Version:   s.version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		report.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(report)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, healthy := s.runChecks(r.Context()); !healthy {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, "ready")
}

// handleLive answers as long as the process is serving at all.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "alive")
}
