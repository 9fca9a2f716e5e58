package validation

import (
	"context"
	"fmt"

	"firestige.xyz/sharp/internal/ccsds"
)

// ChecksumFunc reports whether a packet passes the instrument's integrity
// check. The expected value is instrument-defined.
type ChecksumFunc func(pkt ccsds.Packet) bool

// NoChecksum accepts every packet. It is the default until an instrument
// supplies its own check.
func NoChecksum(ccsds.Packet) bool { return true }

// XORChecksum requires the cumulative exclusive-or of the payload bytes to
// be zero, i.e. the last payload byte balances the rest.
func XORChecksum(pkt ccsds.Packet) bool {
	var acc byte
	for _, b := range pkt.Payload() {
		acc ^= b
	}
	return acc == 0
}

// ChecksumByName resolves a checksum policy name.
func ChecksumByName(name string) (ChecksumFunc, error) {
	switch name {
	case "", "none":
		return NoChecksum, nil
	case "xor":
		return XORChecksum, nil
	default:
		return nil, fmt.Errorf("unknown checksum algorithm %q (must be none/xor)", name)
	}
}

// ValidateChecksums checks every packet of src against fn, in stream order.
// It only returns an error when src cannot be read.
func ValidateChecksums(ctx context.Context, src ccsds.Source, fn ChecksumFunc) (Report, error) {
	data, err := ccsds.ReadAll(src)
	if err != nil {
		return nil, err
	}
	packets, _ := ccsds.Split(data)
	return checkPackets(ctx, packets, fn)
}

// ValidateChecksumsFile opens path, runs ValidateChecksums and closes it.
func ValidateChecksumsFile(ctx context.Context, path string, fn ChecksumFunc) (Report, error) {
	src, err := ccsds.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return ValidateChecksums(ctx, src, fn)
}

func checkPackets(ctx context.Context, packets []ccsds.Packet, fn ChecksumFunc) (Report, error) {
	if fn == nil {
		fn = NoChecksum
	}
	var report Report
	for _, pkt := range packets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !fn(pkt) {
			report = append(report, Warnf(KindChecksum, "Packet %d has a checksum error.", pkt.Index))
		}
	}
	return report, nil
}

// ChecksumValidator adapts a checksum policy to a Validator so it can run as
// one of the custom validators of Validate.
func ChecksumValidator(fn ChecksumFunc) Validator {
	return ValidatorFunc{
		ValidatorName: "checksum",
		Fn: func(ctx context.Context, src ccsds.Source) ([]Warning, error) {
			return ValidateChecksums(ctx, src, fn)
		},
	}
}
