package analyzer

import (
	"github.com/alexhholmes/binstruct/internal/parser"
)

// Strategy is how the byte size of a field is determined.
type Strategy int

const (
	FixedScalar      Strategy = iota // fixed-width scalar
	FixedCompound                    // array, statically sized nested structure, size=N blob
	LengthReferenced                 // byte length held by an earlier field
	Terminal                         // consumes the rest of the input
	SelfDelimited                    // nested structure or enum without a static size
	Skipped                          // not on the wire
)

func (s Strategy) String() string {
	switch s {
	case FixedScalar:
		return "fixed-scalar"
	case FixedCompound:
		return "fixed-compound"
	case LengthReferenced:
		return "length-referenced"
	case Terminal:
		return "terminal"
	case SelfDelimited:
		return "self-delimited"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Repr is the binary representation kind of a field.
type Repr int

const (
	ReprScalar  Repr = iota
	ReprBlob         // []byte or string
	ReprSlice        // []T of fixed-size elements
	ReprArray        // [N]T
	ReprNested       // annotated structure or registered external type
	ReprEnum         // annotated enum structure
	ReprVariant      // member of an enum structure
	ReprSkipped      // bin:"-"
)

func (r Repr) String() string {
	switch r {
	case ReprScalar:
		return "scalar"
	case ReprBlob:
		return "blob"
	case ReprSlice:
		return "slice"
	case ReprArray:
		return "array"
	case ReprNested:
		return "nested"
	case ReprEnum:
		return "enum"
	case ReprVariant:
		return "variant"
	case ReprSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Elem describes the element of an array or slice, or the payload of an
// enum variant.
type Elem struct {
	GoType   string // as declared
	Type     string // aliases resolved
	Repr     Repr   // ReprScalar, ReprNested or ReprEnum
	Size     int    // -1 if not static
	Terminal bool   // nested payload ends in a terminal field
}

// EnumInfo summarizes an enum structure for the fields that use it.
type EnumInfo struct {
	Name     string
	TagType  string // inline tag type, "" when a discriminant field is required
	Variants []Variant
}

type Variant struct {
	Name string
	Tag  uint64
}

// ResolvedField is one entry of a LayoutPlan.
type ResolvedField struct {
	Index     int
	Name      string
	GoType    string // as declared
	Type      string // aliases resolved
	Pos       string
	Repr      Repr
	Strategy  Strategy
	ByteOrder parser.ByteOrder // LittleEndian or BigEndian, never unspecified
	Size      int              // bytes on the wire for fixed strategies, -1 otherwise
	Elem      *Elem
	ArrayLen  int

	// Cross-field references, -1 when absent. Ref fields point backward,
	// Of fields point forward.
	LengthRef       int
	LengthOf        int
	DiscriminantRef int
	DiscriminantOf  int

	Condition      *parser.Predicate
	ConditionRefs  []int
	PredicateInput bool // read by the condition of a later field

	Enum *EnumInfo // ReprEnum
	Tag  uint64    // ReprVariant
}

// Computed reports whether the encoder derives the field's wire value from
// another field instead of reading it from the structure.
func (f *ResolvedField) Computed() bool {
	return f.LengthOf >= 0 || f.DiscriminantOf >= 0
}

// Bits returns the width of a scalar field in bits.
func (f *ResolvedField) Bits() int {
	return scalars[f.Type].size * 8
}

// LayoutPlan is the validated, ordered description of how each field of a
// structure is represented in bytes. It is read-only once returned.
type LayoutPlan struct {
	Name       string
	Pos        string
	Kind       parser.StructKind
	ByteOrder  parser.ByteOrder // resolved structure default
	Align      int
	TagType    string // enum only
	Fields     []ResolvedField
	StaticSize int  // -1 if the encoded size depends on the value
	Terminal   bool // ends in a field that consumes the rest of the input
}

// IsEnum reports whether the plan describes an enum structure.
func (p *LayoutPlan) IsEnum() bool {
	return p.Kind == parser.KindEnum
}

// Field returns the resolved field with the given name.
func (p *LayoutPlan) Field(name string) (*ResolvedField, bool) {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			return &p.Fields[i], true
		}
	}
	return nil, false
}
