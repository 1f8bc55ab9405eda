package example

//go:generate go run ../cmd/binstruct generate packet.go

type PageID uint64

// Packet uses every kind of field binstruct supports.
//
// @binstruct byte_order=big
type Packet struct {
	Version uint8
	Flags   uint8
	Page    PageID `bin:"byte_order=little"`
	Delta   int16
	Ratio   float32
	Digest  [4]byte
	Marks   [2]uint16
	NameLen uint16  `bin:"length_of=Name"`
	Name    string  `bin:"len=NameLen"`
	NumPts  uint8   `bin:"length_of=Points"`
	Points  []Point `bin:"len=NumPts"`
	CRC     uint32  `bin:"skip_if=Flags&1 == 0"`
	Kind    uint8
	Body    Body   `bin:"discriminant=Kind"`
	Trailer []byte `bin:"terminal"`

	// Scratch is not on the wire.
	Scratch []byte `bin:"-"`
}

// @binstruct byte_order=big
type Point struct {
	X, Y int16
}

// Body holds exactly one of its variants. The tag is carried by the
// enclosing structure.
//
// @binstruct enum
type Body struct {
	Ping  *Ping   `bin:"tag=1"`
	Value *uint32 `bin:"tag=2"`
	Note  *Note   `bin:"tag=3"`
}

// @binstruct
type Ping struct {
	Seq uint32
}

// @binstruct
type Note struct {
	Len  uint8  `bin:"length_of=Text"`
	Text string `bin:"len=Len"`
}
