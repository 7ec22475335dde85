package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// DatabaseHealthChecker pings the report store's SQL backend.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// Health describes the running backends. Components is static information
// (store driver, ledger mode, vault driver); Checkers are probed per call.
type Health struct {
	Components map[string]string
	Checkers   map[string]HealthChecker
}

type HealthStatus struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Components map[string]string      `json:"components,omitempty"`
	Checks     map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// run probes every checker concurrently under one deadline.
func (h Health) run(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Components: h.Components,
		Checks:     make(map[string]CheckStatus, len(h.Checkers)),
	}
	var mu sync.Mutex
	var g errgroup.Group
	for name, checker := range h.Checkers {
		name, checker := name, checker
		g.Go(func() error {
			cs := CheckStatus{Status: "healthy"}
			if err := checker.Check(ctx); err != nil {
				cs = CheckStatus{Status: "unhealthy", Message: err.Error()}
			}
			mu.Lock()
			status.Checks[name] = cs
			if cs.Status != "healthy" {
				status.Status = "unhealthy"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return status
}

// Handler answers 503 when any checker fails.
func (h Health) Handler(w http.ResponseWriter, r *http.Request) {
	status := h.run(r.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// Readiness gates traffic on the same probes without the detail body.
func (h Health) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.run(r.Context())
	ready := "ready"
	code := http.StatusOK
	if status.Status != "healthy" {
		ready, code = "not ready", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": ready, "timestamp": status.Timestamp})
}

// LivenessHandler only proves the process serves HTTP.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
