package codegen

import (
	"fmt"
	"strings"

	"github.com/alexhholmes/binstruct/internal/analyzer"
	"github.com/alexhholmes/binstruct/internal/parser"
)

// code is a strings.Builder that tracks the indentation of generated
// statements.
type code struct {
	strings.Builder
	depth int
}

func (c *code) line(format string, args ...any) {
	c.WriteString(strings.Repeat("\t", c.depth))
	fmt.Fprintf(&c.Builder, format, args...)
	c.WriteByte('\n')
}

// open writes a line ending in "{" and indents what follows.
func (c *code) open(format string, args ...any) {
	c.line(format+" {", args...)
	c.depth++
}

func (c *code) close() {
	c.depth--
	c.line("}")
}

func (c *code) blank() {
	c.WriteByte('\n')
}

// fail writes an error check that returns err wrapped with the field name.
func (c *code) fail(structName, field string) {
	c.open("if err != nil")
	c.line("return wire.FieldErr(%q, %q, err)", structName, field)
	c.close()
}

// orderExpr returns the encoding/binary byte order for o.
func orderExpr(o parser.ByteOrder) string {
	if o == parser.BigEndian {
		return "binary.BigEndian"
	}
	return "binary.LittleEndian"
}

// typeEmitter holds the encode/decode code generators for one scalar type.
type typeEmitter struct {
	encode func(c emitCtx) string // call writing c.src, returns error
	decode func(c emitCtx) string // call reading from c.dec, returns (value, error)
	conv   func(c emitCtx, raw string) string
}

// emitCtx carries context for code emission
type emitCtx struct {
	src    string // value to write
	dec    string // decoder expression
	goType string // declared type of the value
	order  parser.ByteOrder
}

// wireMethod describes the Encoder/Decoder method pair for a scalar.
type wireMethod struct {
	name    string // Uint8, Uint16, ..., Bool, Float32, Float64
	typ     string // Go type the method takes and returns
	ordered bool   // takes a binary.ByteOrder
}

var wireMethods = map[string]wireMethod{
	"bool":    {"Bool", "bool", false},
	"uint8":   {"Uint8", "uint8", false},
	"byte":    {"Uint8", "uint8", false},
	"int8":    {"Uint8", "uint8", false},
	"uint16":  {"Uint16", "uint16", true},
	"int16":   {"Uint16", "uint16", true},
	"uint32":  {"Uint32", "uint32", true},
	"int32":   {"Uint32", "uint32", true},
	"float32": {"Float32", "float32", true},
	"uint64":  {"Uint64", "uint64", true},
	"int64":   {"Uint64", "uint64", true},
	"float64": {"Float64", "float64", true},
}

// sameType reports whether a value of goType can be passed where typ is
// expected without a conversion.
func sameType(goType, typ string) bool {
	return goType == typ || (goType == "byte" && typ == "uint8")
}

func emitters() map[string]typeEmitter {
	out := make(map[string]typeEmitter, len(wireMethods))
	for scalar, m := range wireMethods {
		out[scalar] = typeEmitter{
			encode: func(c emitCtx) string {
				src := c.src
				if !sameType(c.goType, m.typ) {
					src = m.typ + "(" + src + ")"
				}
				if m.ordered {
					return fmt.Sprintf("e.%s(%s, %s)", m.name, orderExpr(c.order), src)
				}
				return fmt.Sprintf("e.%s(%s)", m.name, src)
			},
			decode: func(c emitCtx) string {
				if m.ordered {
					return fmt.Sprintf("%s.%s(%s)", c.dec, m.name, orderExpr(c.order))
				}
				return fmt.Sprintf("%s.%s()", c.dec, m.name)
			},
			conv: func(c emitCtx, raw string) string {
				if sameType(c.goType, m.typ) {
					return raw
				}
				return c.goType + "(" + raw + ")"
			},
		}
	}
	return out
}

var scalarEmitters = emitters()

// scalar returns the emitter for a resolved scalar type.
func scalar(resolved string) (typeEmitter, error) {
	em, ok := scalarEmitters[resolved]
	if !ok {
		return typeEmitter{}, fmt.Errorf("no emitter for type %s", resolved)
	}
	return em, nil
}

// local names the generated variable holding the wire value of a field.
func local(field string) string {
	return "f" + field
}

// lengthExpr is the encoded byte length of a blob or slice field.
func lengthExpr(f *analyzer.ResolvedField, value string) string {
	if f.Repr == analyzer.ReprSlice && f.Elem.Size > 1 {
		return fmt.Sprintf("len(%s)*%d", value, f.Elem.Size)
	}
	return fmt.Sprintf("len(%s)", value)
}

// isByteElem reports whether an array or slice element is written as raw bytes.
func isByteElem(e *analyzer.Elem) bool {
	return e != nil && e.Repr == analyzer.ReprScalar && (e.Type == "uint8" || e.Type == "byte") && sameType(e.GoType, "uint8")
}

// describe renders the comment placed above each field's code.
func describe(plan *analyzer.LayoutPlan, f *analyzer.ResolvedField) string {
	var parts []string
	parts = append(parts, f.GoType)
	switch {
	case f.LengthOf >= 0:
		parts = append(parts, "length of "+plan.Fields[f.LengthOf].Name)
	case f.DiscriminantOf >= 0:
		parts = append(parts, "tag of "+plan.Fields[f.DiscriminantOf].Name)
	case f.LengthRef >= 0:
		parts = append(parts, "len="+plan.Fields[f.LengthRef].Name)
	case f.DiscriminantRef >= 0:
		parts = append(parts, "discriminant="+plan.Fields[f.DiscriminantRef].Name)
	case f.Strategy == analyzer.Terminal:
		parts = append(parts, "terminal")
	case f.Strategy == analyzer.FixedCompound && (f.Repr == analyzer.ReprBlob || f.Repr == analyzer.ReprSlice):
		parts = append(parts, fmt.Sprintf("size=%d", f.Size))
	}
	if f.Condition != nil {
		parts = append(parts, "skip_if="+f.Condition.Source)
	}
	return fmt.Sprintf("// %s: %s", f.Name, strings.Join(parts, ", "))
}
