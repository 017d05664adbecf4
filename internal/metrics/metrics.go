// Package metrics holds the Prometheus collectors for the execution
// boundary. A Metrics value is constructed once against a registry and
// injected into the components that observe it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors exposed on /metrics.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	compilePasses   prometheus.Counter
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_commands_total",
				Help: "Mediated process executions by program and outcome.",
			},
			[]string{"program", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "folio_command_duration_seconds",
				Help:    "Wall-clock duration of mediated process executions.",
				Buckets: prometheus.ExponentialBuckets(0.01, 3, 10),
			},
			[]string{"program"},
		),
		compilePasses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_compile_passes_total",
				Help: "Typesetting passes started.",
			},
		),
	}
	reg.MustRegister(m.commandsTotal, m.commandDuration, m.compilePasses)
	return m
}

// ObserveCommand implements process.Recorder.
func (m *Metrics) ObserveCommand(program, outcome string, elapsed time.Duration) {
	m.commandsTotal.WithLabelValues(program, outcome).Inc()
	m.commandDuration.WithLabelValues(program).Observe(elapsed.Seconds())
}

// ObserveCompilePass implements latex.Recorder.
func (m *Metrics) ObserveCompilePass() {
	m.compilePasses.Inc()
}
