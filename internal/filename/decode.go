package filename

import (
	"fmt"
	"path/filepath"
	"strings"

	"firestige.xyz/sharp/internal/core"
)

type decodeState int

const (
	expectInstrument decodeState = iota
	expectModeOrLevel
	expectLevel
	expectDescriptor
	expectTime
	expectVersion
	done
)

// Decode parses a science file name (directories are ignored).
//
// A name with the raw extension is accepted but not decoded; see
// decodeRawPlaceholder.
func (c *Codec) Decode(path string) (ScienceFilename, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	tokens := strings.Split(strings.TrimSuffix(base, ext), separator)

	if tokens[0] != c.vocab.Mission {
		return ScienceFilename{}, fmt.Errorf("%w: File %s not recognized. Not a valid mission name.", core.ErrUnrecognizedMission, base)
	}

	switch ext {
	case c.vocab.RawExtension:
		return c.decodeRawPlaceholder(tokens, ext), nil
	case c.vocab.Extension:
	default:
		return ScienceFilename{}, fmt.Errorf("%w: File extension %s not recognized.", core.ErrUnrecognizedExtension, ext)
	}

	d := tokenDecoder{vocab: &c.vocab, name: base, tokens: tokens[1:]}
	out, err := d.run()
	if err != nil {
		return ScienceFilename{}, err
	}
	out.Mission = tokens[0]
	out.Extension = ext
	return out, nil
}

// decodeRawPlaceholder handles raw telemetry names carrying the science
// grammar. Their layout is not settled, so only mission and instrument are
// kept and the rest of the record is left empty.
func (c *Codec) decodeRawPlaceholder(tokens []string, ext string) ScienceFilename {
	out := ScienceFilename{Mission: tokens[0], Extension: ext}
	if len(tokens) > 1 {
		out.Instrument = tokens[1]
	}
	return out
}

// tokenDecoder walks the tokens after the mission through the fixed grammar.
type tokenDecoder struct {
	vocab  *Vocabulary
	name   string
	tokens []string
	pos    int
	out    ScienceFilename
}

func (d *tokenDecoder) run() (ScienceFilename, error) {
	state := expectInstrument
	for state != done {
		var err error
		state, err = d.step(state)
		if err != nil {
			return ScienceFilename{}, err
		}
	}
	if d.pos != len(d.tokens) {
		return ScienceFilename{}, fmt.Errorf("%w: %s has %d unexpected trailing field(s)", core.ErrMalformedFilename, d.name, len(d.tokens)-d.pos)
	}
	return d.out, nil
}

func (d *tokenDecoder) remaining() int { return len(d.tokens) - d.pos }

func (d *tokenDecoder) next() (string, bool) {
	if d.pos >= len(d.tokens) {
		return "", false
	}
	tok := d.tokens[d.pos]
	d.pos++
	return tok, true
}

func (d *tokenDecoder) step(state decodeState) (decodeState, error) {
	switch state {
	case expectInstrument:
		tok, ok := d.next()
		if !ok || !d.vocab.hasInstrument(tok) {
			return done, fmt.Errorf("%w: File %s not recognized. Not a valid instrument name.", core.ErrUnrecognizedInstrument, d.name)
		}
		d.out.Instrument = tok
		return expectModeOrLevel, nil

	case expectModeOrLevel:
		if d.pos >= len(d.tokens) {
			return done, d.missing("level")
		}
		tok := d.tokens[d.pos]
		if tok == "" {
			return done, fmt.Errorf("%w: %s has an empty field after the instrument", core.ErrMalformedFilename, d.name)
		}
		if _, _, ok := d.vocab.splitLevel(tok); ok {
			return expectLevel, nil
		}
		d.out.Mode, _ = d.next()
		return expectLevel, nil

	case expectLevel:
		tok, ok := d.next()
		if !ok {
			return done, d.missing("level")
		}
		level, test, ok := d.vocab.splitLevel(tok)
		if !ok {
			return done, fmt.Errorf("%w: Level, %s, is not recognized. Must be one of %v.", core.ErrUnrecognizedLevel, tok, d.vocab.Levels)
		}
		d.out.Level = level
		d.out.Test = test
		return expectDescriptor, nil

	case expectDescriptor:
		// time and version always close the name, so a descriptor is
		// present exactly when three tokens are left.
		switch n := d.remaining(); {
		case n > 3:
			return done, fmt.Errorf("%w: %s has %d unexpected field(s) after the level", core.ErrMalformedFilename, d.name, n-3)
		case n < 3:
			return expectTime, nil
		}
		tok, _ := d.next()
		if !d.vocab.hasDescriptor(tok) {
			return done, fmt.Errorf("%w: Descriptor, %s, is not recognized.", core.ErrUnrecognizedDescriptor, tok)
		}
		d.out.Descriptor = tok
		return expectTime, nil

	case expectTime:
		tok, ok := d.next()
		if !ok {
			return done, d.missing("time")
		}
		t, err := parseTimeToken(tok)
		if err != nil {
			return done, err
		}
		d.out.Time = t
		return expectVersion, nil

	case expectVersion:
		tok, ok := d.next()
		if !ok {
			return done, d.missing("version")
		}
		if !strings.HasPrefix(tok, "v") {
			return done, fmt.Errorf("%w: version token %q must start with v", core.ErrInvalidVersion, tok)
		}
		v, err := ParseVersion(strings.TrimPrefix(tok, "v"))
		if err != nil {
			return done, err
		}
		d.out.Version = v
		return done, nil
	}
	return done, fmt.Errorf("%w: unknown decoder state %d", core.ErrMalformedFilename, state)
}

func (d *tokenDecoder) missing(field string) error {
	return fmt.Errorf("%w: %s has no %s field", core.ErrMalformedFilename, d.name, field)
}
