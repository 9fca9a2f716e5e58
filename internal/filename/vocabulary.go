// Package filename encodes and decodes PADRE science file names.
//
// The grammar is
//
//	<mission>_<instrument>[_<mode>]_<level>[test][_<descriptor>]_<YYYYMMDDThhmmss>_v<X.Y.Z><ext>
//
// Underscore is the field separator and never appears inside a field value.
// Every enumerated set (instruments, levels, descriptors) comes from a
// Vocabulary so that hardcoded and configuration-sourced sets share one path.
package filename

import (
	"slices"
	"strings"
)

// Vocabulary holds the closed sets the grammar is checked against.
// A Vocabulary must not be modified after it is handed to a Codec.
type Vocabulary struct {
	Mission      string   `mapstructure:"mission" yaml:"mission"`
	Instruments  []string `mapstructure:"instruments" yaml:"instruments"`
	Levels       []string `mapstructure:"levels" yaml:"levels"` // ordered, lowest first
	Descriptors  []string `mapstructure:"descriptors" yaml:"descriptors"`
	Extension    string   `mapstructure:"extension" yaml:"extension"`
	RawExtension string   `mapstructure:"raw_extension" yaml:"raw_extension"`

	// RawInstrumentCodes maps the two-letter ground-station code found in raw
	// telemetry file names (PADRESP13_...) to an instrument name.
	RawInstrumentCodes map[string]string `mapstructure:"raw_instrument_codes" yaml:"raw_instrument_codes"`
}

// DefaultVocabulary returns the built-in PADRE SHARP vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Mission:      "padre",
		Instruments:  []string{"sharp"},
		Levels:       []string{"l0", "l1", "l2", "l3", "l4"},
		Descriptors:  []string{"eventlist", "spec-eventlist", "spec", "xraydirect"},
		Extension:    ".fits",
		RawExtension: ".bin",
		RawInstrumentCodes: map[string]string{
			"SP": "sharp",
		},
	}
}

func (v Vocabulary) hasInstrument(s string) bool { return slices.Contains(v.Instruments, s) }
func (v Vocabulary) hasLevel(s string) bool      { return slices.Contains(v.Levels, s) }
func (v Vocabulary) hasDescriptor(s string) bool { return slices.Contains(v.Descriptors, s) }

// splitLevel splits a level token into level and test flag. ok is false when
// the token is not a level of the vocabulary, with or without the test suffix.
func (v Vocabulary) splitLevel(tok string) (level string, test bool, ok bool) {
	if v.hasLevel(tok) {
		return tok, false, true
	}
	if base, found := strings.CutSuffix(tok, testSuffix); found && v.hasLevel(base) {
		return base, true, true
	}
	return "", false, false
}

// clone returns a deep copy so a Codec never shares slices with its caller.
func (v Vocabulary) clone() Vocabulary {
	out := v
	out.Instruments = slices.Clone(v.Instruments)
	out.Levels = slices.Clone(v.Levels)
	out.Descriptors = slices.Clone(v.Descriptors)
	if v.RawInstrumentCodes != nil {
		out.RawInstrumentCodes = make(map[string]string, len(v.RawInstrumentCodes))
		for k, val := range v.RawInstrumentCodes {
			out.RawInstrumentCodes[k] = val
		}
	}
	return out
}
