package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/sharp/internal/core"
	"firestige.xyz/sharp/internal/validation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv(DirEnvVar, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Console)
	assert.Equal(t, "padre", cfg.Vocabulary.Mission)
	assert.Equal(t, []string{"l0", "l1", "l2", "l3", "l4", "ql"}, cfg.Vocabulary.Levels)
	assert.Equal(t, map[string]string{"SP": "sharp"}, cfg.Vocabulary.RawInstrumentCodes)
	assert.Nil(t, cfg.Validation.ValidAPIDs)
	require.Len(t, cfg.Validation.Validators, 1)
	assert.Equal(t, "checksum", cfg.Validation.Validators[0].Name)
	assert.Empty(t, cfg.Pipeline.OutputDir)
}

func TestLoadDiscoversConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DirEnvVar, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: warn
  console: stdout
vocabulary:
  instruments: [sharp, meddea]
  raw_instrument_codes:
    SP: sharp
    MD: meddea
validation:
  valid_apids: [160, 161]
  strict: true
  validators:
    - name: packet-length
      options:
        min: 3
        max: 64
pipeline:
  output_dir: /data/out
metrics:
  textfile: /var/lib/node_exporter/sharp.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Console)
	assert.Equal(t, []string{"sharp", "meddea"}, cfg.Vocabulary.Instruments)
	assert.Equal(t, "padre", cfg.Vocabulary.Mission, "unset keys keep defaults")
	assert.Equal(t, map[string]string{"SP": "sharp", "MD": "meddea"}, cfg.Vocabulary.RawInstrumentCodes)
	assert.Equal(t, []uint16{160, 161}, cfg.Validation.ValidAPIDs)
	assert.True(t, cfg.Validation.Strict)
	require.Len(t, cfg.Validation.Validators, 1)
	assert.Equal(t, "packet-length", cfg.Validation.Validators[0].Name)
	assert.Equal(t, "/data/out", cfg.Pipeline.OutputDir)
	assert.Equal(t, "/var/lib/node_exporter/sharp.prom", cfg.Metrics.Textfile)

	opts, err := cfg.Validation.Options(validation.NewRegistry(), nil)
	require.NoError(t, err)
	assert.Len(t, opts.Validators, 1)
	assert.True(t, opts.Strict)
	assert.Equal(t, []uint16{160, 161}, opts.ValidAPIDs)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(DirEnvVar, t.TempDir())
	t.Setenv("SHARP_LOG_LEVEL", "error")
	t.Setenv("SHARP_VALIDATION_STRICT", "true")
	t.Setenv("SHARP_PIPELINE_OUTPUT_DIR", "/tmp/products")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.Validation.Strict)
	assert.Equal(t, "/tmp/products", cfg.Pipeline.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad console", func(c *Config) { c.Log.Console = "printer" }},
		{"file without name", func(c *Config) { c.Log.File.Enabled = true }},
		{"empty mission", func(c *Config) { c.Vocabulary.Mission = "" }},
		{"no instruments", func(c *Config) { c.Vocabulary.Instruments = nil }},
		{"no levels", func(c *Config) { c.Vocabulary.Levels = nil }},
		{"bad extension", func(c *Config) { c.Vocabulary.Extension = "fits" }},
		{"underscore token", func(c *Config) { c.Vocabulary.Descriptors = []string{"spec_list"} }},
		{"unnamed validator", func(c *Config) { c.Validation.Validators = []validation.ValidatorConfig{{}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), core.ErrConfigInvalid)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestOptionsUnknownValidator(t *testing.T) {
	vc := ValidationConfig{Validators: []validation.ValidatorConfig{{Name: "crc32"}}}

	_, err := vc.Options(validation.NewRegistry(), nil)
	assert.ErrorIs(t, err, core.ErrValidatorNotFound)
}

func TestWriteDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sharp")

	path, err := WriteDefault(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Vocabulary.Levels, cfg.Vocabulary.Levels)

	_, err = WriteDefault(dir, false)
	assert.Error(t, err, "existing file is kept without overwrite")

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	_, err = WriteDefault(dir, true)
	require.NoError(t, err)

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "log:\n  level: debug\n", string(backup))
}

func TestDump(t *testing.T) {
	cfg := Default()
	var buf bytes.Buffer

	require.NoError(t, Dump(&cfg, &buf))

	out := buf.String()
	assert.Contains(t, out, "mission: padre")
	assert.Contains(t, out, "name: checksum")
	assert.Contains(t, out, "level: info")
}
