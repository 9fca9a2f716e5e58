package validation

import (
	"context"
	"fmt"

	"firestige.xyz/sharp/internal/ccsds"
	"firestige.xyz/sharp/internal/metrics"
)

// Validator is a custom check run after baseline validation. It receives
// the same source as the baseline pass.
type Validator interface {
	Name() string
	Validate(ctx context.Context, src ccsds.Source) ([]Warning, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc struct {
	ValidatorName string
	Fn            func(ctx context.Context, src ccsds.Source) ([]Warning, error)
}

func (f ValidatorFunc) Name() string { return f.ValidatorName }

func (f ValidatorFunc) Validate(ctx context.Context, src ccsds.Source) ([]Warning, error) {
	return f.Fn(ctx, src)
}

// Result is the outcome of one custom validator.
type Result struct {
	Validator string
	Warnings  []Warning
	Err       error
}

// Options configures Validate.
type Options struct {
	// ValidAPIDs enables the APID check when non-nil.
	ValidAPIDs []uint16
	// Validators run in order after the baseline and APID checks.
	Validators []Validator
	// Strict makes the first failing validator abort the pass. Otherwise the
	// failure is reported as a ValidatorError warning and the pass continues.
	Strict bool
	// Metrics, when set, records packet and warning counts.
	Metrics *metrics.Recorder
}

// Validate runs baseline validation, the optional APID check and the custom
// validators against src. The report holds baseline warnings, then APID
// warnings, then each validator's warnings in order.
func Validate(ctx context.Context, src ccsds.Source, opts Options) (Report, error) {
	data, err := ccsds.ReadAll(src)
	if err != nil {
		opts.Metrics.ObserveRun(metrics.RunFailed)
		return nil, err
	}
	packets, trailing := ccsds.Split(data)
	for _, pkt := range packets {
		opts.Metrics.ObservePacket(pkt.APID())
	}

	report := baseline(packets, trailing)
	report = append(report, checkAPIDs(packets, opts.ValidAPIDs)...)

	for _, v := range opts.Validators {
		if err := ctx.Err(); err != nil {
			opts.Metrics.ObserveRun(metrics.RunFailed)
			return report, err
		}
		res := runValidator(ctx, v, src)
		if res.Err != nil {
			if opts.Strict {
				opts.Metrics.ObserveRun(metrics.RunFailed)
				return report, fmt.Errorf("validator %q: %w", res.Validator, res.Err)
			}
			res.Warnings = append(res.Warnings, Warnf(KindValidator, "validator %q failed: %v", res.Validator, res.Err))
		}
		report = append(report, res.Warnings...)
	}

	for _, w := range report {
		opts.Metrics.ObserveWarning(string(w.Kind))
	}
	opts.Metrics.ObserveRun(runResult(report))
	return report, nil
}

// ValidateFile opens path, runs Validate and closes the file on every path.
func ValidateFile(ctx context.Context, path string, opts Options) (Report, error) {
	src, err := ccsds.OpenFile(path)
	if err != nil {
		opts.Metrics.ObserveRun(metrics.RunFailed)
		return nil, err
	}
	defer src.Close()
	return Validate(ctx, src, opts)
}

// runValidator isolates one validator: a panic becomes its Err.
func runValidator(ctx context.Context, v Validator, src ccsds.Source) (res Result) {
	res.Validator = v.Name()
	defer func() {
		if r := recover(); r != nil {
			res.Warnings = nil
			res.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	res.Warnings, res.Err = v.Validate(ctx, src)
	return res
}

func runResult(r Report) string {
	if len(r) == 0 {
		return metrics.RunClean
	}
	return metrics.RunWarnings
}
