package ccsds

import "github.com/google/gopacket"

// Packet is one framed space packet inside a buffer.
type Packet struct {
	Index  int // position in the stream, 0-based
	Offset int // byte offset of the primary header
	Header PrimaryHeader
	Raw    []byte // header and data field
}

// APID returns the application process identifier.
func (p Packet) APID() uint16 { return p.Header.APID }

// SequenceCount returns the 14-bit sequence count.
func (p Packet) SequenceCount() uint16 { return p.Header.SequenceCount }

// Payload returns the packet data field.
func (p Packet) Payload() []byte { return p.Header.Payload }

// TrailingKind classifies bytes left after the last complete packet.
type TrailingKind int

const (
	// TrailingNone means the buffer ended exactly on a packet boundary.
	TrailingNone TrailingKind = iota
	// TrailingExtraBytes means fewer bytes than a primary header remained.
	TrailingExtraBytes
	// TrailingTruncated means a header declared more bytes than remained.
	TrailingTruncated
)

// Trailing describes an incomplete tail of a packet buffer.
type Trailing struct {
	Kind   TrailingKind
	Offset int // where the incomplete tail starts
	Have   int // bytes present in the tail
	Needed int // bytes the tail would need to be complete (truncated only)
	Header PrimaryHeader
}

// Split frames data into packets in stream order. Bytes that do not form a
// complete packet are described by the returned Trailing.
func Split(data []byte) ([]Packet, Trailing) {
	var packets []Packet
	offset := 0
	for offset < len(data) {
		rest := data[offset:]
		if len(rest) < PrimaryHeaderLen {
			return packets, Trailing{Kind: TrailingExtraBytes, Offset: offset, Have: len(rest)}
		}

		var h PrimaryHeader
		// the length check above guarantees a header, so decoding cannot fail
		_ = h.DecodeFromBytes(rest, gopacket.NilDecodeFeedback)
		n := h.PacketLen()
		if n > len(rest) {
			return packets, Trailing{Kind: TrailingTruncated, Offset: offset, Have: len(rest), Needed: n, Header: h}
		}

		packets = append(packets, Packet{
			Index:  len(packets),
			Offset: offset,
			Header: h,
			Raw:    rest[:n],
		})
		offset += n
	}
	return packets, Trailing{Kind: TrailingNone, Offset: offset}
}
