package filename

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"firestige.xyz/sharp/internal/core"
)

// RawLevel is the level assigned to ground-station telemetry files.
const RawLevel = "raw"

// RawTelemetryName is the decoded form of a ground-station telemetry file
// name such as PADRESP13_250503042550.DAT.
type RawTelemetryName struct {
	Instrument string
	Code       string // ground-station instrument code, e.g. "SP"
	Channel    string // digits following the code
	Time       time.Time
	Level      string
	Extension  string
}

// rawTelemetryExtensions are the ground-station telemetry suffixes, compared
// case-insensitively.
var rawTelemetryExtensions = []string{".dat", ".bin"}

// DecodeRaw parses a ground-station telemetry file name:
// <MISSION><code><channel>_<YYMMDDhhmmss>.<ext>, mission compared
// case-insensitively. ext must be .dat or .bin in any case.
func (c *Codec) DecodeRaw(path string) (RawTelemetryName, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	head, stamp, found := strings.Cut(stem, separator)
	prefix := strings.ToUpper(c.vocab.Mission)
	if !found || len(head) < len(prefix)+2 || strings.ToUpper(head[:len(prefix)]) != prefix {
		return RawTelemetryName{}, noInstrument(base)
	}

	code := strings.ToUpper(head[len(prefix) : len(prefix)+2])
	instrument, ok := c.vocab.RawInstrumentCodes[code]
	if !ok || !c.vocab.hasInstrument(instrument) {
		return RawTelemetryName{}, noInstrument(base)
	}

	if !slices.Contains(rawTelemetryExtensions, strings.ToLower(ext)) {
		return RawTelemetryName{}, fmt.Errorf("%w: File extension %s not recognized for telemetry file %s.", core.ErrUnrecognizedExtension, ext, base)
	}

	t, err := time.Parse(rawTimeLayout, stamp)
	if err != nil {
		return RawTelemetryName{}, fmt.Errorf("%w: time field %q of %s does not match YYMMDDhhmmss", core.ErrInvalidTimestamp, stamp, base)
	}

	return RawTelemetryName{
		Instrument: instrument,
		Code:       code,
		Channel:    head[len(prefix)+2:],
		Time:       t,
		Level:      RawLevel,
		Extension:  ext,
	}, nil
}

func noInstrument(base string) error {
	return fmt.Errorf("%w: No valid instrument name found in %s", core.ErrUnrecognizedInstrument, base)
}
