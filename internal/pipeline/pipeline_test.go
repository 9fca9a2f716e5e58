package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/sharp/internal/ccsds"
	"firestige.xyz/sharp/internal/ccsds/ccsdstest"
	"firestige.xyz/sharp/internal/core"
	"firestige.xyz/sharp/internal/log"
	"firestige.xyz/sharp/internal/validation"
)

func newTestProcessor(t *testing.T, opts validation.Options) (*Processor, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := log.New(log.LoggerConfig{Console: "none", Pattern: "[%level] %msg%n"}, &buf)
	require.NoError(t, err)
	return New(Config{
		Validation: opts,
		OutputDir:  t.TempDir(),
		Logger:     logger,
	}), &buf
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProcessRawTelemetry(t *testing.T) {
	p, logs := newTestProcessor(t, validation.Options{})
	input := writeInput(t, "PADRESP13_250503042550.DAT", ccsdstest.Stream(ccsdstest.Sequence(160, 0, 4)...))

	outputs, err := p.ProcessFile(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, outputs, 1)
	assert.Equal(t, filepath.Join(p.OutputDir(), "padre_sharp_l0_20250503T042550_v0.0.0.fits"), outputs[0])
	assert.FileExists(t, outputs[0])
	assert.NotContains(t, logs.String(), "Validation Finding")
	assert.Contains(t, logs.String(), "[INFO] Processing file "+input+".")
	assert.EqualValues(t, 1, p.Metrics().Produced.Load())
}

func TestProcessLogsValidationFindings(t *testing.T) {
	p, logs := newTestProcessor(t, validation.Options{})
	data := ccsdstest.Stream(ccsdstest.Sequence(160, 0, 2)...)
	data = append(data, 0x01, 0x02)
	input := writeInput(t, "PADRESP13_250503042550.bin", data)

	_, err := p.ProcessFile(context.Background(), input)
	require.NoError(t, err)

	assert.Contains(t, logs.String(),
		"[WARNING] Validation Finding for File : "+input+" : ExtraBytesWarning: File has 2 extra byte(s)")
	assert.EqualValues(t, 1, p.Metrics().Findings.Load())
}

func TestProcessStrictValidatorFailure(t *testing.T) {
	failing := new(MockValidator)
	failing.On("Name").Return("broken")
	failing.On("Validate", mock.Anything, mock.Anything).Return(nil, errors.New("cannot read housekeeping"))
	p, _ := newTestProcessor(t, validation.Options{Validators: []validation.Validator{failing}, Strict: true})
	input := writeInput(t, "PADRESP13_250503042550.DAT", ccsdstest.Stream(ccsdstest.Sequence(160, 0, 1)...))

	_, err := p.ProcessFile(context.Background(), input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read housekeeping")
	assert.EqualValues(t, 1, p.Metrics().Failed.Load())
	failing.AssertExpectations(t)
}

func TestProcessLenientValidatorFailure(t *testing.T) {
	failing := new(MockValidator)
	failing.On("Name").Return("broken")
	failing.On("Validate", mock.Anything, mock.Anything).Return(nil, errors.New("cannot read housekeeping"))
	p, logs := newTestProcessor(t, validation.Options{Validators: []validation.Validator{failing}})
	input := writeInput(t, "PADRESP13_250503042550.DAT", ccsdstest.Stream(ccsdstest.Sequence(160, 0, 1)...))

	outputs, err := p.ProcessFile(context.Background(), input)

	require.NoError(t, err)
	assert.Len(t, outputs, 1)
	assert.Contains(t, logs.String(), "ValidatorError: validator \"broken\" failed: cannot read housekeeping")
}

// MockValidator implements validation.Validator
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Name() string {
	return m.Called().String(0)
}

func (m *MockValidator) Validate(ctx context.Context, src ccsds.Source) ([]validation.Warning, error) {
	args := m.Called(ctx, src)
	warnings, _ := args.Get(0).([]validation.Warning)
	return warnings, args.Error(1)
}

func TestCalibrationChain(t *testing.T) {
	p, _ := newTestProcessor(t, validation.Options{})

	tests := []struct {
		input string
		want  string
	}{
		{"PADRESP13_250503042550.DAT", "padre_sharp_l0_20250503T042550_v0.0.0.fits"},
		{"padre_sharp_l0_20250503T042550_v0.0.0.fits", "padre_sharp_l1_20250503T042550_v0.0.0.fits"},
		{"padre_sharp_l1_20250503T042550_v1.2.3.fits", "padre_sharp_ql_20250503T042550_v1.2.3.fits"},
		{"padre_sharp_photon_l0test_spec_20240101T000000_v0.1.0.fits", "padre_sharp_l1_20240101T000000_v0.1.0.fits"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Calibrate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalibrationChainEnds(t *testing.T) {
	p, _ := newTestProcessor(t, validation.Options{})

	for _, name := range []string{
		"padre_sharp_ql_20250503T042550_v1.2.3.fits",
		"padre_sharp_l2_20250503T042550_v1.2.3.fits",
		"padre_sharp_20250503T042550.bin",
	} {
		_, err := p.Calibrate(name)
		assert.ErrorIs(t, err, core.ErrNoCalibration, name)
		assert.Contains(t, err.Error(), "Cannot find calibration for file "+name+".")
	}

	_, err := p.Calibrate("notes.txt")
	assert.ErrorIs(t, err, core.ErrUnrecognizedMission)

	_, err = p.Calibrate("PADRESP13_250503042550.fits")
	assert.ErrorIs(t, err, core.ErrUnrecognizedMission, "telemetry names need a telemetry extension")
}

func TestProcessFileCreatesL1FromL0(t *testing.T) {
	p, logs := newTestProcessor(t, validation.Options{})
	input := writeInput(t, "padre_sharp_l0_20250503T042550_v0.0.0.fits", nil)

	outputs, err := p.ProcessFile(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, outputs, 1)
	assert.Equal(t, "padre_sharp_l1_20250503T042550_v0.0.0.fits", filepath.Base(outputs[0]))
	assert.NotContains(t, logs.String(), "Validation Finding", "science files are not packet-validated")
}

func TestProcessFiles(t *testing.T) {
	p, _ := newTestProcessor(t, validation.Options{})
	good := writeInput(t, "padre_sharp_l0_20250503T042550_v0.0.0.fits", nil)
	bad := writeInput(t, "padre_sharp_ql_20250503T042550_v0.0.0.fits", nil)

	outputs, err := p.ProcessFiles(context.Background(), []string{good, bad})

	assert.Len(t, outputs, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoCalibration)
	assert.True(t, strings.HasPrefix(err.Error(), bad+": "))
	assert.EqualValues(t, 2, p.Metrics().Processed.Load())
	assert.EqualValues(t, 1, p.Metrics().Failed.Load())

	p.Metrics().Reset()
	assert.Zero(t, p.Metrics().Processed.Load())
}

func TestProcessCancelled(t *testing.T) {
	p, _ := newTestProcessor(t, validation.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessFiles(ctx, []string{"padre_sharp_l0_20250503T042550_v0.0.0.fits"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDefaults(t *testing.T) {
	p := New(Config{})
	assert.Equal(t, os.TempDir(), p.OutputDir())
	assert.NotNil(t, p.logger)
}
