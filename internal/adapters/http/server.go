// Package http exposes the health, readiness, and metrics surface of a
// folio deployment. It performs no mediated execution itself; it only
// reports whether the surrounding host can support one.
package http

import (
	"encoding/json"
	"math"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aretw0/folio/internal/secrets"
)

// Server reports deployment health.
type Server struct {
	version   string
	workspace string
	secrets   *secrets.Manager
	registry  *prometheus.Registry
	started   time.Time
}

// NewServer creates a health server for the given workspace.
func NewServer(version, workspace string, sm *secrets.Manager, registry *prometheus.Registry) *Server {
	return &Server{
		version:   version,
		workspace: workspace,
		secrets:   sm,
		registry:  registry,
		started:   time.Now(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/ping", s.handlePing)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

type healthResponse struct {
	Status        string          `json:"status"`
	Version       string          `json:"version"`
	UptimeSeconds float64         `json:"uptime_seconds"`
	Timestamp     string          `json:"timestamp"`
	Checks        map[string]bool `json:"checks"`
	Details       map[string]any  `json:"details,omitempty"`
}

type readinessResponse struct {
	Ready    bool            `json:"ready"`
	Services map[string]bool `json:"services"`
	Message  string          `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{"api": true}
	details := map[string]any{}

	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		checks["memory"] = vm.UsedPercent < 90
		details["memory_percent"] = round2(vm.UsedPercent)
		details["memory_available_gb"] = round2(float64(vm.Available) / (1 << 30))
	}
	if du, err := disk.UsageWithContext(r.Context(), "/"); err == nil {
		checks["disk"] = du.UsedPercent < 90
		details["disk_percent"] = round2(du.UsedPercent)
		details["disk_free_gb"] = round2(float64(du.Free) / (1 << 30))
	}
	if percents, err := cpu.PercentWithContext(r.Context(), 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		checks["cpu"] = percents[0] < 95
		details["cpu_percent"] = round2(percents[0])
	}
	checks["workspace"] = writable(s.workspace)

	healthy := true
	for _, ok := range checks {
		healthy = healthy && ok
	}

	status := http.StatusOK
	label := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		label = "unhealthy"
	}

	writeJSON(w, status, healthResponse{
		Status:        label,
		Version:       s.version,
		UptimeSeconds: round2(time.Since(s.started).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        checks,
		Details:       details,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	services := map[string]bool{
		"workspace": writable(s.workspace),
	}

	// At least one provider must be usable before the pipeline can run.
	anyProvider := false
	for _, ok := range s.secrets.ValidateAll() {
		anyProvider = anyProvider || ok
	}
	services["credentials"] = anyProvider

	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		if du, derr := disk.UsageWithContext(r.Context(), "/"); derr == nil {
			services["resources"] = vm.UsedPercent < 95 && du.UsedPercent < 95
		}
	}

	ready := true
	var failed []string
	for name, ok := range services {
		if !ok {
			ready = false
			failed = append(failed, name)
		}
	}

	resp := readinessResponse{Ready: ready, Services: services}
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
		sort.Strings(failed)
		resp.Message = "not ready: " + strings.Join(failed, ", ")
	}
	writeJSON(w, status, resp)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "folio",
		"version": s.version,
		"endpoints": map[string]string{
			"health":  "/health",
			"ready":   "/ready",
			"ping":    "/ping",
			"metrics": "/metrics",
		},
	})
}

func writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe, err := os.CreateTemp(dir, ".folio-probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
