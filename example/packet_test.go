package example

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/binstruct/wire"
)

// kindOffset is the position of Packet.Kind in testPacket's encoding.
const kindOffset = 37

func testPacket() Packet {
	return Packet{
		Version: 1,
		Flags:   1,
		Page:    0x0102,
		Delta:   -2,
		Ratio:   1.5,
		Digest:  [4]byte{0xDE, 0xAD, 0xBE, 0xEF},
		Marks:   [2]uint16{1, 0x0203},
		Name:    "hi",
		Points:  []Point{{X: 1, Y: -1}},
		CRC:     0xCAFEBABE,
		Body:    Body{Ping: &Ping{Seq: 5}},
		Trailer: []byte{0x7F},
		Scratch: []byte("not on the wire"),
	}
}

func TestPacketEncode(t *testing.T) {
	p := testPacket()
	buf, err := p.MarshalBinary()
	require.NoError(t, err)

	want := "01 01" + // version, flags
		" 02 01 00 00 00 00 00 00" + // page, little endian
		" FF FE" + // delta
		" 3F C0 00 00" + // ratio
		" DE AD BE EF" + // digest
		" 00 01 02 03" + // marks
		" 00 02 68 69" + // name
		" 04 00 01 FF FF" + // points, length in bytes
		" CA FE BA BE" + // crc
		" 01 05 00 00 00" + // kind, ping
		" 7F" // trailer
	assert.Equal(t, want, wire.HexString(buf))
	assert.Equal(t, byte(1), buf[kindOffset])
}

func TestPacketRoundTrip(t *testing.T) {
	p := testPacket()
	buf, err := p.MarshalBinary()
	require.NoError(t, err)

	var decoded Packet
	require.NoError(t, decoded.UnmarshalBinary(buf))

	want := testPacket()
	want.NameLen = 2
	want.NumPts = 4
	want.Kind = 1
	want.Scratch = nil
	assert.Equal(t, want, decoded)
}

func TestPacketConditionalField(t *testing.T) {
	p := testPacket()
	p.Flags = 0
	buf, err := p.MarshalBinary()
	require.NoError(t, err)

	full := testPacket()
	withCRC, err := full.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, len(withCRC)-4)

	var decoded Packet
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Zero(t, decoded.CRC)
	assert.Equal(t, uint32(5), decoded.Body.Ping.Seq)
}

func TestPacketVariants(t *testing.T) {
	value := uint32(0x01020304)
	tests := []struct {
		name string
		body Body
		want string
	}{
		{"ping", Body{Ping: &Ping{Seq: 7}}, "01 07 00 00 00"},
		{"value", Body{Value: &value}, "02 04 03 02 01"},
		{"note", Body{Note: &Note{Text: "ok"}}, "03 02 6F 6B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Packet{Body: tt.body}
			buf, err := p.MarshalBinary()
			require.NoError(t, err)

			// Kind follows 27 bytes of fixed and empty fields.
			assert.Equal(t, tt.want, wire.HexString(buf[27:]))

			var decoded Packet
			require.NoError(t, decoded.UnmarshalBinary(buf))
			tag, err := decoded.Body.VariantTag()
			require.NoError(t, err)
			assert.Equal(t, uint64(buf[27]), tag)
		})
	}
}

func TestPacketUnknownVariant(t *testing.T) {
	p := testPacket()
	buf, err := p.MarshalBinary()
	require.NoError(t, err)
	buf[kindOffset] = 9

	var decoded Packet
	err = decoded.UnmarshalBinary(buf)
	require.ErrorIs(t, err, wire.ErrUnknownVariant)

	var uv *wire.UnknownVariantError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "Body", uv.Enum)
	assert.Equal(t, uint64(9), uv.Tag)

	var fe *wire.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Packet", fe.Struct)
	assert.Equal(t, "Body", fe.Field)
}

func TestPacketVariantCount(t *testing.T) {
	p := Packet{}
	_, err := p.MarshalBinary()
	assert.ErrorIs(t, err, wire.ErrNoVariant)

	value := uint32(1)
	p.Body = Body{Ping: &Ping{}, Value: &value}
	_, err = p.MarshalBinary()
	assert.ErrorIs(t, err, wire.ErrMultipleVariants)
}

func TestPacketTerminal(t *testing.T) {
	p := testPacket()
	p.Trailer = nil
	buf, err := p.MarshalBinary()
	require.NoError(t, err)

	var decoded Packet
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.NotNil(t, decoded.Trailer)
	assert.Empty(t, decoded.Trailer)

	p.Trailer = []byte{1, 2, 3, 4, 5}
	buf, err = p.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, decoded.Trailer)
}

func TestPacketPointsLengthMismatch(t *testing.T) {
	p := testPacket()
	buf, err := p.MarshalBinary()
	require.NoError(t, err)
	buf[28] = 3 // NumPts

	var decoded Packet
	err = decoded.UnmarshalBinary(buf)
	assert.ErrorIs(t, err, wire.ErrLengthMismatch)
}

func TestPacketTruncatedEverywhere(t *testing.T) {
	p := testPacket()
	p.Trailer = nil
	buf, err := p.MarshalBinary()
	require.NoError(t, err)

	for n := 0; n < len(buf); n++ {
		var decoded Packet
		err := decoded.UnmarshalBinary(buf[:n])
		assert.ErrorIs(t, err, wire.ErrTruncated, "prefix of %d bytes", n)
		assert.Zero(t, decoded.Version)
	}
}

func TestNoteStandalone(t *testing.T) {
	n := Note{Text: "hello"}
	buf, err := n.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "05 68 65 6C 6C 6F", wire.HexString(buf))

	var decoded Note
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, Note{Len: 5, Text: "hello"}, decoded)
}
