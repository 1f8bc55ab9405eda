package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexhholmes/binstruct/internal/parser"
)

// scalarInfo describes a Go scalar with a defined binary representation.
type scalarInfo struct {
	size     int
	unsigned bool
	float    bool
	boolean  bool
}

var scalars = map[string]scalarInfo{
	"bool":    {size: 1, boolean: true},
	"uint8":   {size: 1, unsigned: true},
	"byte":    {size: 1, unsigned: true},
	"int8":    {size: 1},
	"uint16":  {size: 2, unsigned: true},
	"int16":   {size: 2},
	"uint32":  {size: 4, unsigned: true},
	"int32":   {size: 4},
	"float32": {size: 4, float: true},
	"uint64":  {size: 8, unsigned: true},
	"int64":   {size: 8},
	"float64": {size: 8, float: true},
}

// IsScalar reports whether goType is a builtin scalar with a binary layout.
func IsScalar(goType string) bool {
	_, ok := scalars[goType]
	return ok
}

// IsUnsigned reports whether goType is an unsigned integer scalar, the only
// types allowed to carry lengths and discriminants.
func IsUnsigned(goType string) bool {
	return scalars[goType].unsigned
}

var arrayRe = regexp.MustCompile(`^\[(\d+)\](.+)$`)

// splitArray splits "[16]uint32" into 16 and "uint32".
func splitArray(goType string) (int, string, error) {
	matches := arrayRe.FindStringSubmatch(goType)
	if matches == nil {
		return 0, "", fmt.Errorf("invalid array type: %s (length must be a literal)", goType)
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, "", fmt.Errorf("invalid array length: %s", matches[1])
	}
	return n, matches[2], nil
}

// TypeRegistry tracks the structures of a generation pass, external types
// with generated methods, and type aliases for layout analysis. Resolved
// plans are cached so every structure is resolved once per pass.
type TypeRegistry struct {
	types        map[string]int    // external type name → size in bytes (-1 if self-delimited)
	aliases      map[string]string // alias → underlying type
	structs      map[string]*parser.StructureDescriptor
	plans        map[string]*LayoutPlan
	resolving    map[string]bool
	defaultOrder parser.ByteOrder
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:        make(map[string]int),
		aliases:      make(map[string]string),
		structs:      make(map[string]*parser.StructureDescriptor),
		plans:        make(map[string]*LayoutPlan),
		resolving:    make(map[string]bool),
		defaultOrder: parser.LittleEndian,
	}
}

// Register adds an external type that already has EncodeBinary and
// DecodeBinary methods (for example one generated from another file).
// size is its static size in bytes, or -1 if it is self-delimited.
func (r *TypeRegistry) Register(name string, size int) {
	r.types[name] = size
}

// RegisterAlias adds a type alias mapping (e.g., type PageID uint64)
func (r *TypeRegistry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// RegisterStruct adds an annotated structure so other structures can nest it.
func (r *TypeRegistry) RegisterStruct(desc *parser.StructureDescriptor) {
	r.structs[desc.Name] = desc
}

// RegisterFile registers every structure and alias of a parsed file.
func (r *TypeRegistry) RegisterFile(f *parser.File) {
	for alias, underlying := range f.Aliases {
		r.RegisterAlias(alias, underlying)
	}
	for _, s := range f.Structs {
		r.RegisterStruct(s)
	}
}

// SetDefaultByteOrder sets the byte order used when neither the field nor
// its structure specifies one. The built-in default is little endian.
func (r *TypeRegistry) SetDefaultByteOrder(order parser.ByteOrder) {
	if order == parser.OrderUnspecified {
		order = parser.LittleEndian
	}
	r.defaultOrder = order
}

// DefaultByteOrder returns the global default byte order.
func (r *TypeRegistry) DefaultByteOrder() parser.ByteOrder {
	return r.defaultOrder
}

// Lookup returns the size of a registered external type
func (r *TypeRegistry) Lookup(name string) (int, bool) {
	size, ok := r.types[name]
	return size, ok
}

// Struct returns a registered annotated structure.
func (r *TypeRegistry) Struct(name string) (*parser.StructureDescriptor, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// ResolveType resolves type aliases to their underlying types
// Returns the original type if not an alias
func (r *TypeRegistry) ResolveType(goType string) string {
	seen := map[string]bool{}
	for !seen[goType] {
		seen[goType] = true
		underlying, ok := r.aliases[goType]
		if !ok {
			break
		}
		goType = underlying
	}
	return goType
}

// SizeOf calculates the static size of a type using the registry for
// structures. It returns -1 for types without a static size.
func (r *TypeRegistry) SizeOf(goType string) (int, error) {
	goType = r.ResolveType(goType)

	// Handle slices and strings (dynamic)
	if strings.HasPrefix(goType, "[]") || goType == "string" {
		return -1, nil
	}

	// Handle arrays of registered types: [N]RegisteredType
	if strings.HasPrefix(goType, "[") {
		n, elemType, err := splitArray(goType)
		if err != nil {
			return 0, err
		}
		elemSize, err := r.SizeOf(elemType)
		if err != nil {
			return 0, err
		}
		if elemSize < 0 {
			return 0, fmt.Errorf("array of dynamic type not supported: %s", goType)
		}
		return n * elemSize, nil
	}

	// Try built-in types
	if s, ok := scalars[goType]; ok {
		return s.size, nil
	}

	// Annotated structures
	if _, ok := r.structs[goType]; ok {
		if r.resolving[goType] {
			return -1, nil // recursive through an enum variant
		}
		plan, err := r.Plan(goType)
		if err != nil {
			return 0, err
		}
		return plan.StaticSize, nil
	}

	// External types
	if size, ok := r.Lookup(goType); ok {
		return size, nil
	}

	return 0, fmt.Errorf("unknown type: %s (not annotated with @binstruct)", goType)
}

// Plan returns the resolved plan of a registered structure.
func (r *TypeRegistry) Plan(name string) (*LayoutPlan, error) {
	if plan, ok := r.plans[name]; ok {
		return plan, nil
	}
	desc, ok := r.structs[name]
	if !ok {
		return nil, fmt.Errorf("unknown structure: %s", name)
	}
	return Resolve(desc, r)
}
