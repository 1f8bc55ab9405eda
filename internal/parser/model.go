package parser

import (
	"fmt"
	"strings"
)

// ByteOrder is a byte order option. The zero value means "not specified" so
// that inheritance can be resolved later.
type ByteOrder int

const (
	OrderUnspecified ByteOrder = iota
	LittleEndian
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return "unspecified"
	}
}

// ParseByteOrder accepts "little" or "big".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	default:
		return OrderUnspecified, fmt.Errorf("byte_order must be 'little' or 'big', got: %s", s)
	}
}

type StructKind int

const (
	KindStruct StructKind = iota
	KindEnum              // closed set of variants, exactly one set at a time
)

func (k StructKind) String() string {
	if k == KindEnum {
		return "enum"
	}
	return "struct"
}

// StructOptions holds the structure-level @binstruct parameters.
type StructOptions struct {
	Kind      StructKind
	ByteOrder ByteOrder
	Align     int    // 0 = no padding
	TagType   string // enum only: inline tag type when no discriminant field is used
}

// FieldOptions holds the parsed bin:"..." tag of one field.
type FieldOptions struct {
	ByteOrder    ByteOrder
	LengthOf     string
	Len          string
	Size         int // 0 = not specified
	SkipIf       *Predicate
	Discriminant string
	Tag          uint64
	HasTag       bool
	Terminal     bool
	Skip         bool // bin:"-"
}

// StructureDescriptor is one annotated structure. Field order is wire order.
type StructureDescriptor struct {
	Name    string
	Pos     string
	Options StructOptions
	Fields  []FieldDescriptor
}

// FieldDescriptor is one field of a StructureDescriptor.
type FieldDescriptor struct {
	Name    string
	GoType  string
	Pos     string
	Options FieldOptions
}

// File is the result of parsing one input: the annotated structures plus
// the named scalar/array types (type PageID uint64) they may refer to.
type File struct {
	Package string
	Path    string
	Structs []*StructureDescriptor
	Aliases map[string]string

	// Declare is set for schema inputs, whose generated output must also
	// contain the type declarations.
	Declare bool
}

// Lookup returns the structure with the given name.
func (f *File) Lookup(name string) (*StructureDescriptor, bool) {
	for _, s := range f.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Field returns the index of the named field, or -1.
func (s *StructureDescriptor) Field(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// IsEnum reports whether the structure is a closed set of variants.
func (s *StructureDescriptor) IsEnum() bool {
	return s.Options.Kind == KindEnum
}
