package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/alexhholmes/binstruct/internal/analyzer"
	"github.com/alexhholmes/binstruct/internal/logging"
	"github.com/alexhholmes/binstruct/internal/parser"
)

// WirePackage is the import path of the runtime used by generated code.
const WirePackage = "github.com/alexhholmes/binstruct/wire"

// Options selects what a Generator emits.
type Options struct {
	Encode bool   // EncodeBinary, MarshalBinary and enum encode helpers
	Decode bool   // DecodeBinary, UnmarshalBinary and enum decode helpers
	Header string // prepended verbatim, e.g. a license comment
}

// Artifact is the formatted Go source generated for one input file.
type Artifact struct {
	Package string
	Source  string // input path, for the generated-code banner
	Structs []string
	Code    []byte
}

// Generator generates encode/decode methods for the structures of a file
type Generator struct {
	file  *parser.File
	plans []*analyzer.LayoutPlan
	opts  Options
}

// NewGenerator creates a generator for resolved plans of file. When neither
// direction is selected both are generated.
func NewGenerator(file *parser.File, plans []*analyzer.LayoutPlan, opts Options) *Generator {
	if !opts.Encode && !opts.Decode {
		opts.Encode, opts.Decode = true, true
	}
	return &Generator{file: file, plans: plans, opts: opts}
}

// GenerateFile resolves every structure of file against reg and generates
// its methods. Any configuration error in the file means no output.
func GenerateFile(file *parser.File, reg *analyzer.TypeRegistry, opts Options) (*Artifact, error) {
	plans, err := analyzer.ResolveAll(reg, file)
	if err != nil {
		return nil, err
	}
	return NewGenerator(file, plans, opts).Generate()
}

// Generate synthesizes the selected directions concurrently and assembles
// them into one formatted file.
func (g *Generator) Generate() (*Artifact, error) {
	encoded := make([]string, len(g.plans))
	decoded := make([]string, len(g.plans))

	var eg errgroup.Group
	if g.opts.Encode {
		eg.Go(func() error {
			return synthesize(g.plans, encoded, "encode", GenerateEncode)
		})
	}
	if g.opts.Decode {
		eg.Go(func() error {
			return synthesize(g.plans, decoded, "decode", GenerateDecode)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var body strings.Builder
	if g.file.Declare {
		body.WriteString(declarations(g.file))
	}
	for i := range g.plans {
		for _, part := range []string{encoded[i], decoded[i]} {
			if part == "" {
				continue
			}
			body.WriteString(part)
			body.WriteString("\n")
		}
	}

	src := g.header() + body.String()
	formatted, err := imports.Process(g.file.Path+".gen.go", []byte(src), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}

	art := &Artifact{
		Package: g.file.Package,
		Source:  g.file.Path,
		Code:    formatted,
	}
	for _, p := range g.plans {
		art.Structs = append(art.Structs, p.Name)
	}
	logging.Logger().Debug("generated file",
		zap.String("source", g.file.Path),
		zap.Strings("structs", art.Structs),
		zap.Int("bytes", len(formatted)))
	return art, nil
}

func synthesize(plans []*analyzer.LayoutPlan, out []string, direction string, gen func(*analyzer.LayoutPlan) (string, error)) error {
	for i, p := range plans {
		code, err := gen(p)
		if err != nil {
			return err
		}
		out[i] = code
		logging.Logger().Debug("synthesized",
			zap.String("struct", p.Name),
			zap.String("direction", direction))
	}
	return nil
}

func (g *Generator) header() string {
	var h strings.Builder
	if g.opts.Header != "" {
		h.WriteString(strings.TrimRight(g.opts.Header, "\n"))
		h.WriteString("\n\n")
	}
	source := g.file.Path
	if i := strings.LastIndexAny(source, `/\`); i >= 0 {
		source = source[i+1:]
	}
	if source != "" {
		fmt.Fprintf(&h, "// Code generated by binstruct from %s. DO NOT EDIT.\n\n", source)
	} else {
		h.WriteString("// Code generated by binstruct. DO NOT EDIT.\n\n")
	}
	fmt.Fprintf(&h, "package %s\n\n", g.file.Package)
	h.WriteString("import (\n")
	h.WriteString("\t\"bytes\"\n")
	h.WriteString("\t\"encoding/binary\"\n\n")
	fmt.Fprintf(&h, "\t%q\n", WirePackage)
	h.WriteString(")\n\n")
	return h.String()
}

// declarations emits the Go types of a schema file, which has no Go
// declarations of its own.
func declarations(f *parser.File) string {
	var c code

	aliases := make([]string, 0, len(f.Aliases))
	for name := range f.Aliases {
		aliases = append(aliases, name)
	}
	sort.Strings(aliases)
	for _, name := range aliases {
		c.line("type %s %s", name, f.Aliases[name])
		c.blank()
	}

	for _, s := range f.Structs {
		c.line("// %s", annotation(s.Options))
		c.open("type %s struct", s.Name)
		for _, fd := range s.Fields {
			if tag := FormatTag(fd.Options); tag != "" {
				c.line("%s %s `bin:%s`", fd.Name, fd.GoType, strconv.Quote(tag))
			} else {
				c.line("%s %s", fd.Name, fd.GoType)
			}
		}
		c.close()
		c.blank()
	}
	return c.String()
}

func annotation(o parser.StructOptions) string {
	parts := []string{"@binstruct"}
	if o.Kind == parser.KindEnum {
		parts = append(parts, "enum")
	}
	if o.TagType != "" {
		parts = append(parts, "tag_type="+o.TagType)
	}
	if o.ByteOrder != parser.OrderUnspecified {
		parts = append(parts, "byte_order="+o.ByteOrder.String())
	}
	if o.Align > 0 {
		parts = append(parts, "align="+strconv.Itoa(o.Align))
	}
	return strings.Join(parts, " ")
}

// FormatTag renders field options back into a bin tag value that ParseTag
// accepts.
func FormatTag(o parser.FieldOptions) string {
	if o.Skip {
		return "-"
	}
	var parts []string
	if o.HasTag {
		parts = append(parts, "tag="+strconv.FormatUint(o.Tag, 10))
	}
	if o.ByteOrder != parser.OrderUnspecified {
		parts = append(parts, "byte_order="+o.ByteOrder.String())
	}
	if o.LengthOf != "" {
		parts = append(parts, "length_of="+o.LengthOf)
	}
	if o.Len != "" {
		parts = append(parts, "len="+o.Len)
	}
	if o.Size > 0 {
		parts = append(parts, "size="+strconv.Itoa(o.Size))
	}
	if o.Discriminant != "" {
		parts = append(parts, "discriminant="+o.Discriminant)
	}
	if o.Terminal {
		parts = append(parts, "terminal")
	}
	if o.SkipIf != nil {
		parts = append(parts, "skip_if="+o.SkipIf.Source)
	}
	return strings.Join(parts, ",")
}
