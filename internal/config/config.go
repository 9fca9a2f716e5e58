// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"slices"
	"strings"

	"firestige.xyz/sharp/internal/core"
	"firestige.xyz/sharp/internal/filename"
	"firestige.xyz/sharp/internal/log"
	"firestige.xyz/sharp/internal/metrics"
	"firestige.xyz/sharp/internal/validation"
)

// Config is the top-level configuration. Every section has a usable default.
type Config struct {
	Log        log.LoggerConfig    `mapstructure:"log" yaml:"log"`
	Vocabulary filename.Vocabulary `mapstructure:"vocabulary" yaml:"vocabulary"`
	Validation ValidationConfig    `mapstructure:"validation" yaml:"validation"`
	Pipeline   PipelineConfig      `mapstructure:"pipeline" yaml:"pipeline"`
	Metrics    MetricsConfig       `mapstructure:"metrics" yaml:"metrics"`
}

// ─── Validation ───

// ValidationConfig selects the packet checks run against raw telemetry.
type ValidationConfig struct {
	// ValidAPIDs enables the APID check when non-empty.
	ValidAPIDs []uint16                     `mapstructure:"valid_apids" yaml:"valid_apids"`
	Strict     bool                         `mapstructure:"strict" yaml:"strict"`
	Validators []validation.ValidatorConfig `mapstructure:"validators" yaml:"validators"`
}

// Options resolves the configured validators against reg.
func (vc ValidationConfig) Options(reg *validation.Registry, rec *metrics.Recorder) (validation.Options, error) {
	validators, err := reg.Build(vc.Validators)
	if err != nil {
		return validation.Options{}, err
	}
	opts := validation.Options{
		Validators: validators,
		Strict:     vc.Strict,
		Metrics:    rec,
	}
	if len(vc.ValidAPIDs) > 0 {
		opts.ValidAPIDs = slices.Clone(vc.ValidAPIDs)
	}
	return opts, nil
}

// ─── Pipeline ───

type PipelineConfig struct {
	// OutputDir receives derived products. Empty means os.TempDir().
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// ─── Metrics ───

type MetricsConfig struct {
	// Textfile, when set, is where a run's counters are written in the
	// Prometheus text format.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// ─── Defaults ───

// Default returns the built-in configuration. The vocabulary extends the
// codec default with the quicklook level produced by the pipeline.
func Default() Config {
	vocab := filename.DefaultVocabulary()
	vocab.Levels = append(vocab.Levels, "ql")
	return Config{
		Log:        log.DefaultConfig(),
		Vocabulary: vocab,
		Validation: ValidationConfig{
			Validators: []validation.ValidatorConfig{
				{Name: "checksum", Options: map[string]any{"algorithm": "none"}},
			},
		},
	}
}

// Validate checks values viper cannot type-check.
func (cfg *Config) Validate() error {
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfigInvalid, err)
	}
	switch cfg.Log.Console {
	case "", "none", "stdout", "stderr":
	default:
		return fmt.Errorf("%w: invalid log.console: %s (must be stdout/stderr/none)", core.ErrConfigInvalid, cfg.Log.Console)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Filename == "" {
		return fmt.Errorf("%w: log.file.filename is required when log.file.enabled=true", core.ErrConfigInvalid)
	}

	v := cfg.Vocabulary
	if v.Mission == "" {
		return fmt.Errorf("%w: vocabulary.mission must not be empty", core.ErrConfigInvalid)
	}
	if len(v.Instruments) == 0 {
		return fmt.Errorf("%w: vocabulary.instruments must not be empty", core.ErrConfigInvalid)
	}
	if len(v.Levels) == 0 {
		return fmt.Errorf("%w: vocabulary.levels must not be empty", core.ErrConfigInvalid)
	}
	if !strings.HasPrefix(v.Extension, ".") {
		return fmt.Errorf("%w: vocabulary.extension must start with '.': %q", core.ErrConfigInvalid, v.Extension)
	}
	for _, tok := range slices.Concat([]string{v.Mission}, v.Instruments, v.Levels, v.Descriptors) {
		if tok == "" || strings.Contains(tok, "_") {
			return fmt.Errorf("%w: vocabulary entry %q must be non-empty and free of '_'", core.ErrConfigInvalid, tok)
		}
	}

	for i, vc := range cfg.Validation.Validators {
		if vc.Name == "" {
			return fmt.Errorf("%w: validation.validators[%d].name is required", core.ErrConfigInvalid, i)
		}
	}
	return nil
}

// normalize undoes viper's key lowercasing for the raw instrument codes
// and drops an empty APID list.
func (cfg *Config) normalize() {
	if codes := cfg.Vocabulary.RawInstrumentCodes; codes != nil {
		upper := make(map[string]string, len(codes))
		for k, v := range codes {
			upper[strings.ToUpper(k)] = v
		}
		cfg.Vocabulary.RawInstrumentCodes = upper
	}
	if len(cfg.Validation.ValidAPIDs) == 0 {
		cfg.Validation.ValidAPIDs = nil
	}
}
