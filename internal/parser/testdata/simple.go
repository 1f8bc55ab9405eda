package testdata

type PageID uint64

// Frame is a length-prefixed frame.
//
// @binstruct byte_order=big
type Frame struct {
	Count uint8  `bin:"length_of=Data"`
	Data  []byte `bin:"len=Count"`
	Page  PageID `bin:"byte_order=little"`
	Flags uint8
	CRC   uint32 `bin:"skip_if=Flags&1 == 0"`
	Kind  uint8
	Body  Body   `bin:"discriminant=Kind"`
	Rest  []byte `bin:"terminal"`

	cache   []byte
	Scratch []byte `bin:"-"`
}

// @binstruct enum
type Body struct {
	Ping *Ping `bin:"tag=1"`
	Pong *Ping `bin:"tag=2"`
}

// @binstruct
type Ping struct {
	Seq uint32
}

// No annotation - should be skipped
type Ignored struct {
	Field uint32
}
