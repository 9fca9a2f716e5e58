// Package pipeline drives one input file through validation and
// calibration to its derived product.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"firestige.xyz/sharp/internal/core"
	"firestige.xyz/sharp/internal/filename"
	"firestige.xyz/sharp/internal/log"
	"firestige.xyz/sharp/internal/validation"
)

const (
	LevelL0 = "l0"
	LevelL1 = "l1"
	LevelQL = "ql"

	initialVersion = "0.0.0"
)

// Config contains processor configuration.
type Config struct {
	Codec      *filename.Codec
	Validation validation.Options
	// OutputDir receives derived products. Empty means os.TempDir().
	OutputDir string
	Logger    log.Logger
}

// Processor runs the processing chain. It is safe for concurrent use as long
// as the configured validators are.
type Processor struct {
	codec      *filename.Codec
	validation validation.Options
	outputDir  string
	logger     log.Logger
	metrics    *Metrics
}

// New creates a processor, filling unset fields with defaults.
func New(cfg Config) *Processor {
	if cfg.Codec == nil {
		vocab := filename.DefaultVocabulary()
		vocab.Levels = append(vocab.Levels, LevelQL)
		cfg.Codec = filename.NewCodec(vocab)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.TempDir()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetLogger()
	}
	return &Processor{
		codec:      cfg.Codec,
		validation: cfg.Validation,
		outputDir:  cfg.OutputDir,
		logger:     cfg.Logger,
		metrics:    &Metrics{},
	}
}

// Metrics returns the processor's counters.
func (p *Processor) Metrics() *Metrics { return p.metrics }

// OutputDir returns the directory products are written to.
func (p *Processor) OutputDir() string { return p.outputDir }

// ProcessFile validates raw telemetry, then derives and creates the next
// product. It returns the full paths of the files created.
func (p *Processor) ProcessFile(ctx context.Context, path string) ([]string, error) {
	p.metrics.Processed.Add(1)
	p.logger.Infof("Processing file %s.", path)

	outputs, err := p.process(ctx, path)
	if err != nil {
		p.metrics.Failed.Add(1)
		return nil, err
	}
	p.metrics.Produced.Add(uint64(len(outputs)))
	return outputs, nil
}

func (p *Processor) process(ctx context.Context, path string) ([]string, error) {
	if isTelemetry(path) {
		if err := p.validate(ctx, path); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := p.Calibrate(path)
	if err != nil {
		p.logger.WithError(err).Errorf("Could not calibrate %s.", path)
		return nil, err
	}

	out := filepath.Join(p.outputDir, name)
	f, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	p.logger.Infof("Created %s.", out)
	return []string{out}, nil
}

func (p *Processor) validate(ctx context.Context, path string) error {
	findings, err := validation.ValidateFile(ctx, path, p.validation)
	if err != nil {
		return fmt.Errorf("validation of %s failed: %w", path, err)
	}
	for _, finding := range findings {
		p.logger.Warnf("Validation Finding for File : %s : %s", path, finding)
	}
	p.metrics.Findings.Add(uint64(len(findings)))
	return nil
}

// Calibrate returns the base name of the product derived from path:
// raw telemetry becomes l0 at version 0.0.0, l0 becomes l1 and l1 becomes
// ql with the version kept. Instrument and time always carry over.
func (p *Processor) Calibrate(path string) (string, error) {
	if raw, err := p.codec.DecodeRaw(path); err == nil {
		return p.codec.Encode(filename.Params{
			Instrument: raw.Instrument,
			Time:       raw.Time,
			Level:      LevelL0,
			Version:    initialVersion,
		})
	}

	meta, err := p.codec.Decode(path)
	if err != nil {
		return "", err
	}

	var next string
	switch meta.Level {
	case LevelL0:
		next = LevelL1
	case LevelL1:
		next = LevelQL
	default:
		return "", noCalibration(path)
	}
	return p.codec.Encode(filename.Params{
		Instrument: meta.Instrument,
		Time:       meta.Time,
		Level:      next,
		Version:    meta.Version.String(),
	})
}

// ProcessFiles processes each path in order and joins the errors. Products
// of the files that succeeded are returned even when others fail.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) ([]string, error) {
	var (
		outputs []string
		errs    []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := p.ProcessFile(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		outputs = append(outputs, out...)
	}
	return outputs, errors.Join(errs...)
}

func isTelemetry(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".dat":
		return true
	}
	return false
}

func noCalibration(path string) error {
	return fmt.Errorf("%w: Cannot find calibration for file %s.", core.ErrNoCalibration, path)
}
