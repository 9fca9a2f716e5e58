// Package metrics implements Prometheus metrics for validation passes.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Run results for ValidationRunsTotal.
const (
	RunClean    = "clean"
	RunWarnings = "warnings"
	RunFailed   = "failed"
)

// Recorder owns a private registry so that several recorders (one per test,
// one per CLI invocation) never collide on the default registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// PacketsTotal counts packets framed, by APID
	PacketsTotal *prometheus.CounterVec
	// WarningsTotal counts reported warnings, by kind
	WarningsTotal *prometheus.CounterVec
	// RunsTotal counts validation passes, by result
	RunsTotal *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		PacketsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharp_validation_packets_total",
				Help: "Total number of packets framed during validation",
			},
			[]string{"apid"},
		),
		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharp_validation_warnings_total",
				Help: "Total number of validation warnings",
			},
			[]string{"kind"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharp_validation_runs_total",
				Help: "Total number of validation passes by result (clean, warnings, failed)",
			},
			[]string{"result"},
		),
	}
	r.registry.MustRegister(r.PacketsTotal, r.WarningsTotal, r.RunsTotal)
	return r
}

// Registry exposes the underlying gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObservePacket(apid uint16) {
	if r == nil {
		return
	}
	r.PacketsTotal.WithLabelValues(strconv.Itoa(int(apid))).Inc()
}

func (r *Recorder) ObserveWarning(kind string) {
	if r == nil {
		return
	}
	r.WarningsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) ObserveRun(result string) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
