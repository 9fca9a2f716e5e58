package filename

import (
	"fmt"
	"strings"
	"time"

	"firestige.xyz/sharp/internal/core"
)

const (
	separator  = "_"
	testSuffix = "test"
)

// ScienceFilename is the decoded form of a science file name.
// An absent mode or descriptor is the empty string.
type ScienceFilename struct {
	Mission    string
	Instrument string
	Mode       string
	Level      string
	Test       bool
	Descriptor string
	Time       time.Time // UTC, second precision
	Version    Version
	Extension  string
}

// IsPlaceholder reports whether the record came from a raw-extension name,
// which is not decoded beyond mission and instrument.
func (f ScienceFilename) IsPlaceholder() bool {
	return f.Level == "" && f.Extension != ""
}

// Params are the inputs to Encode.
type Params struct {
	Instrument string
	// Time is used when TimeText is empty.
	Time time.Time
	// TimeText, when set, is parsed as ISO-8601 and takes precedence over Time.
	TimeText   string
	Level      string
	Version    string
	Descriptor string
	Mode       string
	Test       bool
}

// Codec encodes and decodes file names against one Vocabulary.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	vocab Vocabulary
}

// NewCodec returns a Codec bound to a copy of vocab.
func NewCodec(vocab Vocabulary) *Codec {
	return &Codec{vocab: vocab.clone()}
}

// Vocabulary returns a copy of the codec's vocabulary.
func (c *Codec) Vocabulary() Vocabulary {
	return c.vocab.clone()
}

// Encode builds a compliant science file name.
func (c *Codec) Encode(p Params) (string, error) {
	if !c.vocab.hasInstrument(p.Instrument) {
		return "", fmt.Errorf("%w: Instrument, %s, is not recognized.", core.ErrUnrecognizedInstrument, p.Instrument)
	}

	t, err := resolveTime(p)
	if err != nil {
		return "", err
	}

	if !c.vocab.hasLevel(p.Level) {
		return "", fmt.Errorf("%w: Level, %s, is not recognized. Must be one of %v.", core.ErrUnrecognizedLevel, p.Level, c.vocab.Levels)
	}

	version, err := ParseVersion(p.Version)
	if err != nil {
		return "", err
	}

	if strings.Contains(p.Mode, separator) || strings.Contains(p.Descriptor, separator) {
		return "", fmt.Errorf("%w: The underscore symbol _ is not allowed in mode or descriptor.", core.ErrInvalidCharacter)
	}
	// a mode that reads as a level would be taken for the level on decode
	if _, _, ok := c.vocab.splitLevel(p.Mode); ok {
		return "", fmt.Errorf("%w: Mode, %s, reads as a level.", core.ErrAmbiguousMode, p.Mode)
	}
	if p.Descriptor != "" && !c.vocab.hasDescriptor(p.Descriptor) {
		return "", fmt.Errorf("%w: Descriptor, %s, is not recognized.", core.ErrUnrecognizedDescriptor, p.Descriptor)
	}

	level := p.Level
	if p.Test {
		level += testSuffix
	}

	tokens := make([]string, 0, 7)
	tokens = append(tokens, c.vocab.Mission, p.Instrument)
	if p.Mode != "" {
		tokens = append(tokens, p.Mode)
	}
	tokens = append(tokens, level)
	if p.Descriptor != "" {
		tokens = append(tokens, p.Descriptor)
	}
	tokens = append(tokens, formatTime(t), "v"+version.String())

	return strings.Join(tokens, separator) + c.vocab.Extension, nil
}

// Format re-encodes a decoded record. It is the inverse of Decode.
func (c *Codec) Format(f ScienceFilename) (string, error) {
	return c.Encode(Params{
		Instrument: f.Instrument,
		Time:       f.Time,
		Level:      f.Level,
		Version:    f.Version.String(),
		Descriptor: f.Descriptor,
		Mode:       f.Mode,
		Test:       f.Test,
	})
}

func resolveTime(p Params) (time.Time, error) {
	var t time.Time
	switch {
	case p.TimeText != "":
		parsed, err := ParseTimestamp(p.TimeText)
		if err != nil {
			return time.Time{}, err
		}
		t = parsed
	case p.Time.IsZero():
		return time.Time{}, fmt.Errorf("%w: no time given", core.ErrInvalidTimestamp)
	default:
		t = normalizeTime(p.Time)
	}
	// the time token holds a four-digit year
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, fmt.Errorf("%w: year %d does not fit YYYYMMDDThhmmss", core.ErrInvalidTimestamp, y)
	}
	return t, nil
}
