package parser

import (
	"fmt"
)

// Example demonstrating tag parsing for a length-prefixed, flag-gated layout
func ExampleParseTag() {
	// // @binstruct byte_order=big
	// type Record struct {
	//   Flags   uint8
	//   BodyLen uint16 `bin:"length_of=Body"`
	//   Body    []byte `bin:"len=BodyLen"`
	//   Kind    uint8
	//   Payload Payload `bin:"discriminant=Kind"`
	//   CRC     uint32  `bin:"byte_order=little,skip_if=Flags&0x01 == 0"`
	//   Rest    []byte  `bin:"terminal"`
	// }

	tags := []string{
		"",
		"length_of=Body",
		"len=BodyLen",
		"discriminant=Kind",
		"byte_order=little,skip_if=Flags&0x01 == 0",
		"terminal",
	}

	for i, tag := range tags {
		opts, err := ParseTag(tag)
		if err != nil {
			fmt.Printf("Field%d: ERROR: %v\n", i+1, err)
			continue
		}

		fmt.Printf("Field%d (%q):", i+1, tag)
		switch {
		case opts.LengthOf != "":
			fmt.Printf(" length of %s", opts.LengthOf)
		case opts.Len != "":
			fmt.Printf(" length from %s", opts.Len)
		case opts.Discriminant != "":
			fmt.Printf(" tag from %s", opts.Discriminant)
		case opts.Terminal:
			fmt.Printf(" remainder")
		default:
			fmt.Printf(" by type")
		}
		if opts.ByteOrder != OrderUnspecified {
			fmt.Printf(", %s endian", opts.ByteOrder)
		}
		if opts.SkipIf != nil {
			fmt.Printf(", absent when %s", opts.SkipIf.Source)
		}
		fmt.Println()
	}

	// Output:
	// Field1 (""): by type
	// Field2 ("length_of=Body"): length of Body
	// Field3 ("len=BodyLen"): length from BodyLen
	// Field4 ("discriminant=Kind"): tag from Kind
	// Field5 ("byte_order=little,skip_if=Flags&0x01 == 0"): by type, little endian, absent when Flags&0x01 == 0
	// Field6 ("terminal"): remainder
}
