package validation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"firestige.xyz/sharp/internal/ccsds"
	"firestige.xyz/sharp/internal/core"
)

// Factory builds a Validator from its configured options.
type Factory func(options map[string]any) (Validator, error)

// ValidatorConfig names a registered validator and its options.
type ValidatorConfig struct {
	Name    string         `mapstructure:"name" yaml:"name"`
	Options map[string]any `mapstructure:"options" yaml:"options,omitempty"`
}

// Registry maps validator names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the builtin validators.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.MustRegister("checksum", newChecksumValidator)
	r.MustRegister("packet-length", newPacketLengthValidator)
	return r
}

// Register adds a factory. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("validator '%s' already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics on a duplicate name.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names lists registered validators in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves configured validators, keeping their order.
func (r *Registry) Build(cfgs []ValidatorConfig) ([]Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Validator, 0, len(cfgs))
	for _, cfg := range cfgs {
		f, ok := r.factories[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", core.ErrValidatorNotFound, cfg.Name)
		}
		v, err := f(cfg.Options)
		if err != nil {
			return nil, fmt.Errorf("validator '%s': %w", cfg.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(options)
}

type checksumOptions struct {
	Algorithm string `mapstructure:"algorithm"`
}

func newChecksumValidator(options map[string]any) (Validator, error) {
	var opts checksumOptions
	if err := decodeOptions(options, &opts); err != nil {
		return nil, err
	}
	fn, err := ChecksumByName(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	return ChecksumValidator(fn), nil
}

type packetLengthOptions struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// newPacketLengthValidator bounds the data field length of every packet.
// Zero disables a bound.
func newPacketLengthValidator(options map[string]any) (Validator, error) {
	var opts packetLengthOptions
	if err := decodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Min < 0 || opts.Max < 0 || (opts.Max > 0 && opts.Min > opts.Max) {
		return nil, fmt.Errorf("invalid packet length bounds min=%d max=%d", opts.Min, opts.Max)
	}
	return ValidatorFunc{
		ValidatorName: "packet-length",
		Fn: func(ctx context.Context, src ccsds.Source) ([]Warning, error) {
			data, err := ccsds.ReadAll(src)
			if err != nil {
				return nil, err
			}
			packets, _ := ccsds.Split(data)
			var out []Warning
			for _, pkt := range packets {
				n := len(pkt.Payload())
				if (opts.Min > 0 && n < opts.Min) || (opts.Max > 0 && n > opts.Max) {
					out = append(out, Warnf(KindPacketLength,
						"Packet %d has a %d byte data field, outside [%d, %d].", pkt.Index, n, opts.Min, opts.Max))
				}
			}
			return out, nil
		},
	}, nil
}
