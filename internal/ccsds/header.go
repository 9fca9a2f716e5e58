// Package ccsds frames CCSDS space packets for validation.
//
// The primary header is exposed as a gopacket layer so packets can be
// inspected with the usual gopacket tooling, while Split walks a raw
// buffer without allocating a gopacket.Packet per frame.
package ccsds

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// PrimaryHeaderLen is the size of the CCSDS primary header in bytes.
const PrimaryHeaderLen = 6

// SequenceCountModulo is the wrap point of the 14-bit sequence count.
const SequenceCountModulo = 1 << 14

// LayerTypeCCSDS identifies the CCSDS primary header layer.
var LayerTypeCCSDS = gopacket.RegisterLayerType(2160, gopacket.LayerTypeMetadata{
	Name:    "CCSDS",
	Decoder: gopacket.DecodeFunc(decodeCCSDS),
})

// PrimaryHeader is the 6-byte CCSDS space packet primary header.
type PrimaryHeader struct {
	layers.BaseLayer

	Version         uint8 // 3 bits, 0 for CCSDS version 1
	Type            uint8 // 1 bit, 0 telemetry, 1 telecommand
	SecondaryHeader bool
	APID            uint16 // 11 bits
	SequenceFlags   uint8  // 2 bits
	SequenceCount   uint16 // 14 bits
	// DataLength is the packet data field length minus one, as transmitted.
	DataLength uint16
}

// PacketLen returns the total packet length the header declares.
func (h *PrimaryHeader) PacketLen() int {
	return PrimaryHeaderLen + int(h.DataLength) + 1
}

// LayerType implements gopacket.Layer.
func (h *PrimaryHeader) LayerType() gopacket.LayerType { return LayerTypeCCSDS }

// CanDecode implements gopacket.DecodingLayer.
func (h *PrimaryHeader) CanDecode() gopacket.LayerClass { return LayerTypeCCSDS }

// NextLayerType implements gopacket.DecodingLayer.
func (h *PrimaryHeader) NextLayerType() gopacket.LayerType { return gopacket.LayerTypePayload }

// DecodeFromBytes decodes the header at the start of data. The payload is
// limited to the declared data field; a short buffer is reported through
// df.SetTruncated and the payload holds whatever bytes are present.
func (h *PrimaryHeader) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < PrimaryHeaderLen {
		df.SetTruncated()
		return fmt.Errorf("ccsds primary header needs %d bytes, got %d", PrimaryHeaderLen, len(data))
	}
	id := binary.BigEndian.Uint16(data[0:2])
	seq := binary.BigEndian.Uint16(data[2:4])

	h.Version = uint8(id >> 13)
	h.Type = uint8(id>>12) & 0x1
	h.SecondaryHeader = id&0x0800 != 0
	h.APID = id & 0x07ff
	h.SequenceFlags = uint8(seq >> 14)
	h.SequenceCount = seq & 0x3fff
	h.DataLength = binary.BigEndian.Uint16(data[4:6])

	end := h.PacketLen()
	if end > len(data) {
		df.SetTruncated()
		end = len(data)
	}
	h.Contents = data[:PrimaryHeaderLen]
	h.Payload = data[PrimaryHeaderLen:end]
	return nil
}

// SerializeTo implements gopacket.SerializableLayer. DataLength is derived
// from the payload already in b when opts.FixLengths is set.
func (h *PrimaryHeader) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	payloadLen := len(b.Bytes())
	bytes, err := b.PrependBytes(PrimaryHeaderLen)
	if err != nil {
		return err
	}
	if opts.FixLengths {
		if payloadLen == 0 {
			return fmt.Errorf("ccsds packet data field must hold at least one byte")
		}
		h.DataLength = uint16(payloadLen - 1)
	}
	id := uint16(h.Version&0x7)<<13 | uint16(h.Type&0x1)<<12 | h.APID&0x07ff
	if h.SecondaryHeader {
		id |= 0x0800
	}
	binary.BigEndian.PutUint16(bytes[0:2], id)
	binary.BigEndian.PutUint16(bytes[2:4], uint16(h.SequenceFlags&0x3)<<14|h.SequenceCount&0x3fff)
	binary.BigEndian.PutUint16(bytes[4:6], h.DataLength)
	return nil
}

func decodeCCSDS(data []byte, p gopacket.PacketBuilder) error {
	h := &PrimaryHeader{}
	if err := h.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(h)
	return p.NextDecoder(gopacket.LayerTypePayload)
}
