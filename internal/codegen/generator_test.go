package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/binstruct/internal/analyzer"
	binparser "github.com/alexhholmes/binstruct/internal/parser"
)

func generate(t *testing.T, src string, opts Options) string {
	t.Helper()
	input := "package proto\n\n" + src
	f, err := binparser.ParseSource("frame.go", input)
	require.NoError(t, err)

	art, err := GenerateFile(f, analyzer.NewTypeRegistry(), opts)
	require.NoError(t, err)

	// The output must compile against its input.
	typeCheck(t, "frame.go", input, "frame_binstruct.go", string(art.Code))
	return string(art.Code)
}

func plan(t *testing.T, src, name string) *analyzer.LayoutPlan {
	t.Helper()
	f, err := binparser.ParseSource("frame.go", "package proto\n\n"+src)
	require.NoError(t, err)
	reg := analyzer.NewTypeRegistry()
	reg.RegisterFile(f)
	p, err := reg.Plan(name)
	require.NoError(t, err)
	return p
}

const countData = `
// @binstruct
type Frame struct {
	Count uint8  ` + "`bin:\"length_of=Data\"`" + `
	Data  []byte ` + "`bin:\"len=Count\"`" + `
}
`

func TestGenerateCountData(t *testing.T) {
	code := generate(t, countData, Options{})

	assert.Contains(t, code, "// Code generated by binstruct from frame.go. DO NOT EDIT.")
	assert.Contains(t, code, "package proto")
	assert.Contains(t, code, `"github.com/alexhholmes/binstruct/wire"`)
	assert.Contains(t, code, `"bytes"`)
	// single byte scalars take no byte order
	assert.NotContains(t, code, `"encoding/binary"`)

	// Encode: the length is computed from Data, not read from p.Count
	assert.Contains(t, code, "func (p *Frame) EncodeBinary(e *wire.Encoder) error {")
	assert.Contains(t, code, "if err := wire.CheckLength(len(p.Data), 8); err != nil {")
	assert.Contains(t, code, "fCount := uint8(len(p.Data))")
	assert.Contains(t, code, "if err := e.Uint8(fCount); err != nil {")
	assert.Contains(t, code, `return wire.FieldErr("Frame", "Count", err)`)
	assert.Contains(t, code, "if err := e.Bytes(p.Data); err != nil {")
	assert.NotContains(t, code, "p.Count")
	assert.Contains(t, code, "func (p *Frame) MarshalBinary() ([]byte, error) {")

	// Decode
	assert.Contains(t, code, "func (p *Frame) DecodeBinary(d *wire.Decoder) error {")
	assert.Contains(t, code, "fCount, err := d.Uint8()")
	assert.Contains(t, code, "fData, err := d.Bytes(int(v.Count))")
	assert.Contains(t, code, "*p = v")
	assert.Contains(t, code, "func (p *Frame) UnmarshalBinary(b []byte) error {")
	assert.Contains(t, code, "if err := d.Done(); err != nil {")

	// Declaration order is wire order
	assert.Less(t, strings.Index(code, "e.Uint8(fCount)"), strings.Index(code, "e.Bytes(p.Data)"))
	assert.Less(t, strings.Index(code, "d.Uint8()"), strings.Index(code, "d.Bytes("))
}

func TestGenerateDirections(t *testing.T) {
	enc := generate(t, countData, Options{Encode: true})
	assert.Contains(t, enc, "EncodeBinary")
	assert.NotContains(t, enc, "DecodeBinary")

	dec := generate(t, countData, Options{Decode: true})
	assert.Contains(t, dec, "DecodeBinary")
	assert.NotContains(t, dec, "EncodeBinary")
	// MarshalBinary is the only user of bytes
	assert.NotContains(t, dec, `"bytes"`)
}

func TestGenerateHeader(t *testing.T) {
	code := generate(t, countData, Options{Header: "// Copyright 2026 The Authors.\n"})
	assert.True(t, strings.HasPrefix(code, "// Copyright 2026 The Authors.\n\n// Code generated"), code)
}

func TestGenerateScalars(t *testing.T) {
	code := generate(t, `
type PageID uint64

// @binstruct byte_order=big
type Header struct {
	Magic uint32
	Page  PageID `+"`bin:\"byte_order=little\"`"+`
	Delta int16
	Ratio float64
	Ok    bool
}
`, Options{})

	assert.Contains(t, code, `"encoding/binary"`)
	assert.Contains(t, code, "e.Uint32(binary.BigEndian, p.Magic)")
	assert.Contains(t, code, "e.Uint64(binary.LittleEndian, uint64(p.Page))")
	assert.Contains(t, code, "e.Uint16(binary.BigEndian, uint16(p.Delta))")
	assert.Contains(t, code, "e.Float64(binary.BigEndian, p.Ratio)")
	assert.Contains(t, code, "e.Bool(p.Ok)")

	assert.Contains(t, code, "fPage, err := d.Uint64(binary.LittleEndian)")
	assert.Contains(t, code, "v.Page = PageID(fPage)")
	assert.Contains(t, code, "v.Delta = int16(fDelta)")
	assert.Contains(t, code, "v.Magic = fMagic")

	// static size: 4 + 8 + 2 + 8 + 1
	assert.Contains(t, code, "buf.Grow(23)")
}

func TestGenerateConditional(t *testing.T) {
	code := generate(t, `
// @binstruct
type Opt struct {
	Flags uint8
	CRC   uint32 `+"`bin:\"skip_if=Flags == 0\"`"+`
	Tail  uint8  `+"`bin:\"skip_if=CRC == 0\"`"+`
	Extra uint8  `+"`bin:\"-\"`"+`
}
`, Options{})

	// CRC feeds a later predicate, so its wire value is tracked
	assert.Contains(t, code, "var fCRC uint32")
	assert.Contains(t, code, "if !(p.Flags == 0) {")
	assert.Contains(t, code, "fCRC = p.CRC")
	assert.Contains(t, code, "e.Uint32(binary.LittleEndian, fCRC)")
	assert.Contains(t, code, "if !(fCRC == 0) {")

	assert.Contains(t, code, "if !(v.Flags == 0) {")
	assert.Contains(t, code, "if !(v.CRC == 0) {")

	assert.NotContains(t, code, "Extra")
	// conditional fields have no static size
	assert.NotContains(t, code, "buf.Grow")
}

func TestGenerateEnum(t *testing.T) {
	src := `
// @binstruct
type Msg struct {
	Kind uint8
	Body Body ` + "`bin:\"discriminant=Kind\"`" + `
	Flag uint8 ` + "`bin:\"skip_if=Kind == 2\"`" + `
}

// @binstruct enum
type Body struct {
	Ping *Ping   ` + "`bin:\"tag=1\"`" + `
	Num  *uint32 ` + "`bin:\"tag=2,byte_order=big\"`" + `
}

// @binstruct
type Ping struct {
	Seq uint32
}
`
	code := generate(t, src, Options{})

	// discriminant source
	assert.Contains(t, code, "tagBody, err := p.Body.VariantTag()")
	assert.Contains(t, code, "fKind := uint8(tagBody)")
	assert.Contains(t, code, "if err := p.Body.EncodeVariant(e); err != nil {")
	// predicates read the written discriminant
	assert.Contains(t, code, "if !(fKind == 2) {")
	assert.Contains(t, code, "if !(v.Kind == 2) {")
	assert.Contains(t, code, "if err := v.Body.DecodeVariant(d, uint64(v.Kind)); err != nil {")

	// enum helpers
	assert.Contains(t, code, "func (p *Body) VariantTag() (uint64, error) {")
	assert.Contains(t, code, "return 0, wire.ErrNoVariant")
	assert.Contains(t, code, "return 0, wire.ErrMultipleVariants")
	assert.Contains(t, code, "func (p *Body) EncodeVariant(e *wire.Encoder) error {")
	assert.Contains(t, code, "e.Uint32(binary.BigEndian, *p.Num)")
	assert.Contains(t, code, "func (p *Body) DecodeVariant(d *wire.Decoder, tag uint64) error {")
	assert.Contains(t, code, "v.Ping = new(Ping)")
	assert.Contains(t, code, "*v.Num = fNum")
	assert.Contains(t, code, `return &wire.UnknownVariantError{Enum: "Body", Tag: tag}`)

	// an enum without tag_type cannot be encoded on its own
	assert.NotContains(t, code, "func (p *Body) EncodeBinary")
	assert.NotContains(t, code, "func (p *Body) MarshalBinary")
}

func TestGenerateDiscriminantNamedAfterEnum(t *testing.T) {
	code := generate(t, `
// @binstruct
type Msg struct {
	BodyTag uint8
	Body    Body `+"`bin:\"discriminant=BodyTag\"`"+`
}

// @binstruct enum
type Body struct {
	A *uint8  `+"`bin:\"tag=1\"`"+`
	B *uint16 `+"`bin:\"tag=2\"`"+`
}
`, Options{})

	// the tag temporary and the field local must not collide
	assert.Contains(t, code, "tagBody, err := p.Body.VariantTag()")
	assert.Contains(t, code, "fBodyTag := uint8(tagBody)")
	assert.Contains(t, code, "if err := e.Uint8(fBodyTag); err != nil {")
	assert.Contains(t, code, "if err := v.Body.DecodeVariant(d, uint64(v.BodyTag)); err != nil {")
}

func TestGeneratePredicates(t *testing.T) {
	code := generate(t, `
type Mode uint8

// @binstruct
type Rec struct {
	Kind  Mode
	Ok    bool
	Flags uint16
	Ratio float32
	A     uint8 `+"`bin:\"skip_if=Kind == 3 && !Ok\"`"+`
	B     uint8 `+"`bin:\"skip_if=Flags&0x0F != 0 || Flags>>8 == 1\"`"+`
	C     uint8 `+"`bin:\"skip_if=Ratio > 0.5\"`"+`
	D     uint8 `+"`bin:\"skip_if=^Flags == 0\"`"+`
}
`, Options{})

	assert.Contains(t, code, "if !(p.Kind == 3 && !p.Ok) {")
	assert.Contains(t, code, "if !(v.Flags&0x0F != 0 || v.Flags>>8 == 1) {")
	assert.Contains(t, code, "if !(v.Ratio > 0.5) {")
	assert.Contains(t, code, "if !(^p.Flags == 0) {")
}

func TestGenerateInlineTagEnum(t *testing.T) {
	code := generate(t, `
// @binstruct
type Msg struct {
	Body Body
}

// @binstruct enum tag_type=uint16 byte_order=big
type Body struct {
	A *uint8 `+"`bin:\"tag=1\"`"+`
	B *uint8 `+"`bin:\"tag=2\"`"+`
}
`, Options{})

	assert.Contains(t, code, "if err := p.Body.EncodeBinary(e); err != nil {")
	assert.Contains(t, code, "if err := v.Body.DecodeBinary(d); err != nil {")
	assert.Contains(t, code, "func (p *Body) EncodeBinary(e *wire.Encoder) error {")
	assert.Contains(t, code, "e.Uint16(binary.BigEndian, uint16(tag))")
	assert.Contains(t, code, "tag, err := d.Uint16(binary.BigEndian)")
	assert.Contains(t, code, "return p.DecodeVariant(d, uint64(tag))")
	assert.Contains(t, code, "func (p *Body) MarshalBinary() ([]byte, error) {")
	assert.Contains(t, code, "func (p *Body) UnmarshalBinary(b []byte) error {")
}

func TestGenerateCompound(t *testing.T) {
	code := generate(t, `
// @binstruct align=8
type Table struct {
	ID    [4]byte
	Marks [2]uint16
	Name  string   `+"`bin:\"size=6\"`"+`
	N     uint32   `+"`bin:\"length_of=Rows\"`"+`
	Rows  []Point  `+"`bin:\"len=N\"`"+`
}

// @binstruct
type Point struct {
	X, Y int16
}
`, Options{})

	assert.Contains(t, code, "start := e.Len()")
	assert.Contains(t, code, "if err := e.Align(start, 8); err != nil {")
	assert.Contains(t, code, "start := d.Offset()")
	assert.Contains(t, code, "if err := d.Align(start, 8); err != nil {")

	assert.Contains(t, code, "e.Bytes(p.ID[:])")
	assert.Contains(t, code, "copy(v.ID[:], fID)")
	assert.Contains(t, code, "for i := range p.Marks {")
	assert.Contains(t, code, "e.Uint16(binary.LittleEndian, p.Marks[i])")

	assert.Contains(t, code, "if len(p.Name) != 6 {")
	assert.Contains(t, code, "wire.ErrSizeMismatch")
	assert.Contains(t, code, "fName, err := d.String(6)")

	assert.Contains(t, code, "wire.CheckLength(len(p.Rows)*4, 32)")
	assert.Contains(t, code, "if err := p.Rows[i].EncodeBinary(e); err != nil {")
	assert.Contains(t, code, "wire.ErrLengthMismatch")
	// a 32-bit length is range checked before use
	assert.Contains(t, code, "nRows, err := wire.Length(uint64(v.N))")
	assert.Contains(t, code, "fRows, err := d.Bytes(nRows)")
	assert.Contains(t, code, "v.Rows = make([]Point, len(fRows)/4)")
	assert.Contains(t, code, "dRows := wire.NewBytesDecoder(fRows)")
	assert.Contains(t, code, "if err := v.Rows[i].DecodeBinary(dRows); err != nil {")
}

func TestGenerateTerminal(t *testing.T) {
	code := generate(t, `
// @binstruct
type Log struct {
	Level uint8
	Text  string `+"`bin:\"terminal\"`"+`
}
`, Options{})
	assert.Contains(t, code, "if err := e.String(p.Text); err != nil {")
	assert.Contains(t, code, "fText, err := d.Remaining()")
	assert.Contains(t, code, "v.Text = string(fText)")
}

func TestGenerateConfigErrorNoOutput(t *testing.T) {
	f, err := binparser.ParseSource("bad.go", `package proto

// @binstruct
type Good struct {
	V uint8
}

// @binstruct
type Bad struct {
	Data []byte
}
`)
	require.NoError(t, err)

	art, err := GenerateFile(f, analyzer.NewTypeRegistry(), Options{})
	assert.Nil(t, art)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_length")
}

func TestGenerateSchemaDeclarations(t *testing.T) {
	f, err := binparser.ParseSchema("frame.yaml", []byte(`
package: proto
byte_order: big
aliases:
  PageID: uint64
structs:
  - name: Frame
    fields:
      - {name: Count, type: uint8, length_of: Data}
      - {name: Data, type: "[]byte", len: Count}
      - {name: Page, type: PageID}
`))
	require.NoError(t, err)

	art, err := GenerateFile(f, analyzer.NewTypeRegistry(), Options{})
	require.NoError(t, err)
	code := string(art.Code)

	assert.Contains(t, code, "type PageID uint64")
	assert.Contains(t, code, "// @binstruct byte_order=big")
	assert.Contains(t, code, "type Frame struct {")
	assert.Contains(t, code, "`bin:\"length_of=Data\"`")
	assert.Contains(t, code, "e.Uint64(binary.BigEndian, uint64(p.Page))")
	assert.Equal(t, []string{"Frame"}, art.Structs)

	// declarations and methods compile on their own
	typeCheck(t, "frame_binstruct.go", code)
}

func TestGenerateEncodeDirect(t *testing.T) {
	p := plan(t, countData, "Frame")
	enc, err := GenerateEncode(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, "// EncodeBinary writes p to e"))

	dec, err := GenerateDecode(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dec, "// DecodeBinary reads p from d"))
}

func TestFormatTag(t *testing.T) {
	tests := []string{
		"",
		"-",
		"tag=7,byte_order=big",
		"length_of=Data",
		"len=Count",
		"size=16",
		"discriminant=Kind",
		"terminal",
		"byte_order=little,skip_if=Flags&1 == 0",
	}
	for _, tag := range tests {
		t.Run(tag, func(t *testing.T) {
			opts, err := binparser.ParseTag(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, FormatTag(opts))
		})
	}
}
