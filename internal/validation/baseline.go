package validation

import (
	"slices"

	"firestige.xyz/sharp/internal/ccsds"
)

// baseline checks primary-header consistency and file integrity: header
// version, per-APID sequence continuity, and an incomplete tail.
func baseline(packets []ccsds.Packet, trailing ccsds.Trailing) Report {
	var report Report
	last := make(map[uint16]uint16)

	for _, pkt := range packets {
		if pkt.Header.Version != 0 {
			report = append(report, Warnf(KindHeaderVersion,
				"Packet %d has primary header version %d, expected 0.", pkt.Index, pkt.Header.Version))
		}

		apid, seq := pkt.APID(), pkt.SequenceCount()
		prev, seen := last[apid]
		last[apid] = seq
		if !seen {
			continue
		}
		expected := (prev + 1) % ccsds.SequenceCountModulo
		if seq == expected {
			continue
		}
		missing := (int(seq) - int(expected) + ccsds.SequenceCountModulo) % ccsds.SequenceCountModulo
		report = append(report, Warnf(KindSequenceCount,
			"Packet %d (APID %d) has sequence count %d, expected %d: %d packet(s) missing or out of order.",
			pkt.Index, apid, seq, expected, missing))
	}

	switch trailing.Kind {
	case ccsds.TrailingTruncated:
		report = append(report, Warnf(KindTruncated,
			"File appears truncated: packet at offset %d (APID %d) declares %d bytes, only %d present.",
			trailing.Offset, trailing.Header.APID, trailing.Needed, trailing.Have))
	case ccsds.TrailingExtraBytes:
		report = append(report, Warnf(KindExtraBytes,
			"File has %d extra byte(s) after the last complete packet at offset %d.",
			trailing.Have, trailing.Offset))
	}
	return report
}

// checkAPIDs flags packets whose APID is outside valid. A nil valid list
// disables the check.
func checkAPIDs(packets []ccsds.Packet, valid []uint16) Report {
	if valid == nil {
		return nil
	}
	var report Report
	for _, pkt := range packets {
		if !slices.Contains(valid, pkt.APID()) {
			report = append(report, Warnf(KindUnknownAPID,
				"Packet %d has APID %d, not in the valid list %v.", pkt.Index, pkt.APID(), valid))
		}
	}
	return report
}
