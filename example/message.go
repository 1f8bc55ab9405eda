package example

//go:generate go run ../cmd/binstruct generate message.go

// @binstruct
type Message struct {
	ID      uint32
	Payload Payload
}

// Payload carries its own two byte tag.
//
// @binstruct enum tag_type=uint16 byte_order=big
type Payload struct {
	Empty *Empty `bin:"tag=0"`
	Text  *Text  `bin:"tag=7"`
}

// @binstruct
type Empty struct{}

// @binstruct
type Text struct {
	Data string `bin:"terminal"`
}
