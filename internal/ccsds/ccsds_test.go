package ccsds_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/sharp/internal/ccsds"
	"firestige.xyz/sharp/internal/ccsds/ccsdstest"
	"firestige.xyz/sharp/internal/core"
)

func TestPrimaryHeaderDecode(t *testing.T) {
	// APID 0x0A0 (160), sec hdr flag set, seq flags 3, count 5, data length 3 (4 bytes)
	data := []byte{0x08, 0xA0, 0xC0, 0x05, 0x00, 0x03, 0x01, 0x02, 0x03, 0x04}

	var h ccsds.PrimaryHeader
	require.NoError(t, h.DecodeFromBytes(data, gopacket.NilDecodeFeedback))

	assert.Equal(t, uint8(0), h.Version)
	assert.Equal(t, uint8(0), h.Type)
	assert.True(t, h.SecondaryHeader)
	assert.Equal(t, uint16(160), h.APID)
	assert.Equal(t, uint8(3), h.SequenceFlags)
	assert.Equal(t, uint16(5), h.SequenceCount)
	assert.Equal(t, 10, h.PacketLen())
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, h.LayerPayload())
	assert.Len(t, h.LayerContents(), ccsds.PrimaryHeaderLen)
}

func TestPrimaryHeaderTooShort(t *testing.T) {
	var h ccsds.PrimaryHeader
	assert.Error(t, h.DecodeFromBytes([]byte{0x08, 0xA0}, gopacket.NilDecodeFeedback))
}

func TestGopacketDecoding(t *testing.T) {
	raw := ccsdstest.Packet(ccsdstest.Spec{APID: 42, Seq: 7, Payload: []byte("hello")})

	pkt := gopacket.NewPacket(raw, ccsds.LayerTypeCCSDS, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())

	layer := pkt.Layer(ccsds.LayerTypeCCSDS)
	require.NotNil(t, layer)
	h := layer.(*ccsds.PrimaryHeader)
	assert.Equal(t, uint16(42), h.APID)
	assert.Equal(t, uint16(7), h.SequenceCount)

	require.NotNil(t, pkt.ApplicationLayer())
	assert.Equal(t, []byte("hello"), pkt.ApplicationLayer().Payload())
}

func TestSerializeRoundTrip(t *testing.T) {
	raw := ccsdstest.Packet(ccsdstest.Spec{APID: 0x7ff, Seq: 0x3fff, Payload: []byte{0xff}})
	require.Len(t, raw, ccsds.PrimaryHeaderLen+1)

	var h ccsds.PrimaryHeader
	require.NoError(t, h.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
	assert.Equal(t, uint16(0x7ff), h.APID)
	assert.Equal(t, uint16(0x3fff), h.SequenceCount)
	assert.Equal(t, uint16(0), h.DataLength)
}

func TestSplit(t *testing.T) {
	t.Run("Clean", func(t *testing.T) {
		data := ccsdstest.Stream(ccsdstest.Sequence(160, 0, 4)...)
		packets, trailing := ccsds.Split(data)
		require.Len(t, packets, 4)
		assert.Equal(t, ccsds.TrailingNone, trailing.Kind)
		for i, p := range packets {
			assert.Equal(t, i, p.Index)
			assert.Equal(t, uint16(160), p.APID())
			assert.Equal(t, uint16(i), p.SequenceCount())
			assert.Len(t, p.Payload(), 3)
			assert.Equal(t, i*9, p.Offset)
		}
	})

	t.Run("ExtraBytes", func(t *testing.T) {
		data := append(ccsdstest.Stream(ccsdstest.Sequence(160, 0, 2)...), 0x00, 0x01, 0x02)
		packets, trailing := ccsds.Split(data)
		assert.Len(t, packets, 2)
		assert.Equal(t, ccsds.TrailingExtraBytes, trailing.Kind)
		assert.Equal(t, 18, trailing.Offset)
		assert.Equal(t, 3, trailing.Have)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := ccsdstest.Stream(ccsdstest.Sequence(160, 0, 3)...)
		packets, trailing := ccsds.Split(data[:len(data)-2])
		assert.Len(t, packets, 2)
		assert.Equal(t, ccsds.TrailingTruncated, trailing.Kind)
		assert.Equal(t, 9, trailing.Needed)
		assert.Equal(t, 7, trailing.Have)
		assert.Equal(t, uint16(2), trailing.Header.SequenceCount)
	})

	t.Run("Empty", func(t *testing.T) {
		packets, trailing := ccsds.Split(nil)
		assert.Empty(t, packets)
		assert.Equal(t, ccsds.TrailingNone, trailing.Kind)
	})
}

func TestSources(t *testing.T) {
	data := ccsdstest.Stream(ccsdstest.Sequence(1, 0, 2)...)

	t.Run("Bytes", func(t *testing.T) {
		src := ccsds.NewBytesSource("mem", data)
		assert.Equal(t, "mem", src.Name())
		assert.Equal(t, int64(len(data)), src.Size())
		got, err := ccsds.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apid1.bin")
		require.NoError(t, os.WriteFile(path, data, 0644))

		src, err := ccsds.OpenFile(path)
		require.NoError(t, err)
		defer src.Close()

		got, err := ccsds.ReadAll(src)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ccsds.OpenFile(filepath.Join(t.TempDir(), "missing.bin"))
		assert.ErrorIs(t, err, core.ErrSourceUnavailable)
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := ccsds.OpenFile(t.TempDir())
		assert.ErrorIs(t, err, core.ErrSourceUnavailable)
	})
}
