package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ObservePacket(160)
	r.ObservePacket(160)
	r.ObservePacket(161)
	r.ObserveWarning("ChecksumWarning")
	r.ObserveRun(RunWarnings)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.PacketsTotal.WithLabelValues("160")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PacketsTotal.WithLabelValues("161")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.WarningsTotal.WithLabelValues("ChecksumWarning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsTotal.WithLabelValues(RunWarnings)))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObservePacket(1)
		r.ObserveWarning("x")
		r.ObserveRun(RunClean)
	})
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(RunClean)

	path := filepath.Join(t.TempDir(), "sharp.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sharp_validation_runs_total{result="clean"} 1`)
}
