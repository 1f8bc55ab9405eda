package example

//go:generate go run ../cmd/binstruct generate frame.go

// Frame is a length-prefixed byte string: one count byte followed by that
// many data bytes.
//
// @binstruct
type Frame struct {
	Count uint8  `bin:"length_of=Data"`
	Data  []byte `bin:"len=Count"`
}
