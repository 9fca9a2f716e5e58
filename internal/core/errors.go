// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Callers wrap them with fmt.Errorf("%w: ...") to attach the
// human-readable detail and test for the kind with errors.Is.
var (
	// Filename grammar errors
	ErrUnrecognizedMission    = errors.New("sharp: unrecognized mission")
	ErrUnrecognizedInstrument = errors.New("sharp: unrecognized instrument")
	ErrUnrecognizedLevel      = errors.New("sharp: unrecognized level")
	ErrUnrecognizedDescriptor = errors.New("sharp: unrecognized descriptor")
	ErrUnrecognizedExtension  = errors.New("sharp: unrecognized extension")
	ErrInvalidVersion         = errors.New("sharp: invalid version")
	ErrInvalidTimestamp       = errors.New("sharp: invalid timestamp")
	ErrInvalidCharacter       = errors.New("sharp: invalid character")
	ErrAmbiguousMode          = errors.New("sharp: ambiguous mode")
	ErrMalformedFilename      = errors.New("sharp: malformed filename")

	// Packet source errors
	ErrSourceUnavailable = errors.New("sharp: source unavailable")

	// Validation errors
	ErrValidatorNotFound = errors.New("sharp: validator not found")

	// Pipeline errors
	ErrNoCalibration = errors.New("sharp: no calibration")

	// Configuration errors
	ErrConfigInvalid = errors.New("sharp: invalid configuration")
)
