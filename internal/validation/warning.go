// Package validation checks CCSDS telemetry streams and reports findings as
// classified warnings instead of failing.
//
// Only an unreadable source is a hard error. Integrity problems found in a
// readable source (checksum mismatches, sequence gaps, unexpected APIDs,
// anything a custom validator reports) are returned in a Report, in the
// order they were found.
package validation

import "fmt"

// Kind classifies a warning.
type Kind string

const (
	KindChecksum      Kind = "ChecksumWarning"
	KindSequenceCount Kind = "SequenceCountWarning"
	KindTruncated     Kind = "TruncatedFileWarning"
	KindExtraBytes    Kind = "ExtraBytesWarning"
	KindHeaderVersion Kind = "HeaderVersionWarning"
	KindUnknownAPID   Kind = "UnknownApidWarning"
	KindPacketLength  Kind = "PacketLengthWarning"
	KindValidator     Kind = "ValidatorError"
)

// Warning is one validation finding.
type Warning struct {
	Kind    Kind
	Message string
}

// Warnf builds a Warning with a formatted message.
func Warnf(kind Kind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// String renders "<Kind>: <message>".
func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}

// Report is an ordered list of warnings. Order is significant.
type Report []Warning

// Strings renders every warning.
func (r Report) Strings() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.String()
	}
	return out
}

// Len returns the number of warnings.
func (r Report) Len() int { return len(r) }

// Count returns how many warnings have the given kind.
func (r Report) Count(kind Kind) int {
	n := 0
	for _, w := range r {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
