// Package ccsdstest builds CCSDS packet streams for tests.
package ccsdstest

import (
	"github.com/google/gopacket"

	"firestige.xyz/sharp/internal/ccsds"
)

// Spec describes one packet to serialize.
type Spec struct {
	APID    uint16
	Seq     uint16
	Payload []byte
}

// Packet serializes a single telemetry packet.
func Packet(s Spec) []byte {
	h := &ccsds.PrimaryHeader{
		APID:          s.APID,
		SequenceFlags: 0x3,
		SequenceCount: s.Seq,
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, h, gopacket.Payload(s.Payload)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Stream concatenates packets in order.
func Stream(specs ...Spec) []byte {
	var out []byte
	for _, s := range specs {
		out = append(out, Packet(s)...)
	}
	return out
}

// Sequence returns n packets on one APID with consecutive counts starting at
// first. Each payload XORs to zero.
func Sequence(apid uint16, first uint16, n int) []Spec {
	specs := make([]Spec, n)
	for i := range specs {
		seq := uint16((int(first) + i) % ccsds.SequenceCountModulo)
		specs[i] = Spec{APID: apid, Seq: seq, Payload: []byte{byte(i), 0xA5, 0xA5 ^ byte(i)}}
	}
	return specs
}
