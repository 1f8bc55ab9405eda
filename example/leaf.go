package example

//go:generate go run ../cmd/binstruct generate leaf.go

// @binstruct
type LeafElement struct {
	Key    uint32
	Offset uint32
}

// LeafHeader is padded to 16 bytes.
//
// @binstruct align=16
type LeafHeader struct {
	NumKeys  uint16
	Flags    uint16
	NextPage uint32
	PrevPage uint32
}

// @binstruct
type LeafNode struct {
	Header   LeafHeader
	Size     uint16        `bin:"length_of=Elements"`
	Elements []LeafElement `bin:"len=Size"`
	Footer   uint64
}
