package pipeline

import (
	"sync/atomic"
)

// Metrics contains per-processor counters.
type Metrics struct {
	Processed atomic.Uint64 // input files seen
	Produced  atomic.Uint64 // output files created
	Failed    atomic.Uint64 // inputs that returned an error
	Findings  atomic.Uint64 // validation warnings logged
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Processed.Store(0)
	m.Produced.Store(0)
	m.Failed.Store(0)
	m.Findings.Store(0)
}
