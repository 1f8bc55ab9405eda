package codegen

import (
	"fmt"

	"github.com/alexhholmes/binstruct/internal/analyzer"
)

// encoder emits the encode direction of one plan.
type encoder struct {
	plan *analyzer.LayoutPlan
	c    code
}

// GenerateEncode emits EncodeBinary and MarshalBinary for a structure, or
// the variant helpers (and the tagged methods when it has a tag_type) for an
// enum.
func GenerateEncode(plan *analyzer.LayoutPlan) (string, error) {
	enc := &encoder{plan: plan}
	var err error
	if plan.IsEnum() {
		err = enc.enum()
	} else {
		err = enc.structure()
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", plan.Name, err)
	}
	return enc.c.String(), nil
}

func (g *encoder) structure() error {
	p := g.plan
	c := &g.c

	c.line("// EncodeBinary writes p to e in its binary layout.")
	c.open("func (p *%s) EncodeBinary(e *wire.Encoder) error", p.Name)
	if p.Align > 0 {
		c.line("start := e.Len()")
		c.blank()
	}

	for i := range p.Fields {
		f := &p.Fields[i]
		if f.Strategy == analyzer.Skipped {
			continue
		}
		if err := g.field(f); err != nil {
			return err
		}
		c.blank()
	}

	if p.Align > 0 {
		c.open("if err := e.Align(start, %d); err != nil", p.Align)
		c.line("return wire.FieldErr(%q, \"padding\", err)", p.Name)
		c.close()
	}
	c.line("return nil")
	c.close()
	c.blank()

	g.marshal()
	return nil
}

func (g *encoder) marshal() {
	c := &g.c
	c.line("// MarshalBinary implements encoding.BinaryMarshaler.")
	c.open("func (p *%s) MarshalBinary() ([]byte, error)", g.plan.Name)
	c.line("var buf bytes.Buffer")
	if g.plan.StaticSize > 0 {
		c.line("buf.Grow(%d)", g.plan.StaticSize)
	}
	c.open("if err := p.EncodeBinary(wire.NewEncoder(&buf)); err != nil")
	c.line("return nil, err")
	c.close()
	c.line("return buf.Bytes(), nil")
	c.close()
}

// wireRef substitutes predicate references with the value that was written.
func (g *encoder) wireRef(name string) string {
	f, _ := g.plan.Field(name)
	if f.Computed() || (f.PredicateInput && f.Condition != nil) {
		return local(name)
	}
	return "p." + name
}

func (g *encoder) field(f *analyzer.ResolvedField) error {
	c := &g.c
	c.line("%s", describe(g.plan, f))

	if f.Condition == nil {
		return g.value(f)
	}

	if f.PredicateInput {
		c.line("var %s %s", local(f.Name), f.GoType)
	}
	c.open("if !(%s)", f.Condition.Render(g.wireRef))
	if err := g.value(f); err != nil {
		return err
	}
	c.close()
	return nil
}

func (g *encoder) value(f *analyzer.ResolvedField) error {
	c := &g.c
	p := g.plan
	src := "p." + f.Name

	switch {
	case f.LengthOf >= 0:
		target := &p.Fields[f.LengthOf]
		n := lengthExpr(target, "p."+target.Name)
		c.open("if err := wire.CheckLength(%s, %d); err != nil", n, f.Bits())
		c.line("return wire.FieldErr(%q, %q, err)", p.Name, f.Name)
		c.close()
		c.line("%s := %s(%s)", local(f.Name), f.GoType, n)
		return g.scalar(f, local(f.Name))

	case f.DiscriminantOf >= 0:
		target := &p.Fields[f.DiscriminantOf]
		// field locals are "f" + an exported name, so this cannot collide
		tag := "tag" + target.Name
		c.line("%s, err := p.%s.VariantTag()", tag, target.Name)
		c.fail(p.Name, target.Name)
		c.line("%s := %s(%s)", local(f.Name), f.GoType, tag)
		return g.scalar(f, local(f.Name))
	}

	switch f.Repr {
	case analyzer.ReprScalar:
		if f.PredicateInput && f.Condition != nil {
			c.line("%s = %s", local(f.Name), src)
			src = local(f.Name)
		}
		return g.scalar(f, src)

	case analyzer.ReprBlob:
		g.checkSize(f, src)
		if f.Type == "string" {
			if f.GoType != "string" {
				src = "string(" + src + ")"
			}
			g.call(f.Name, "e.String(%s)", src)
		} else {
			g.call(f.Name, "e.Bytes(%s)", src)
		}
		return nil

	case analyzer.ReprSlice:
		g.checkSize(f, src)
		return g.elements(f, src)

	case analyzer.ReprArray:
		if isByteElem(f.Elem) {
			g.call(f.Name, "e.Bytes(%s[:])", src)
			return nil
		}
		return g.elements(f, src)

	case analyzer.ReprNested:
		g.call(f.Name, "%s.EncodeBinary(e)", src)
		return nil

	case analyzer.ReprEnum:
		if f.DiscriminantRef >= 0 {
			g.call(f.Name, "%s.EncodeVariant(e)", src)
		} else {
			g.call(f.Name, "%s.EncodeBinary(e)", src)
		}
		return nil
	}
	return fmt.Errorf("field %s: cannot encode %s", f.Name, f.Repr)
}

// call emits a call returning an error, wrapped with the field name.
func (g *encoder) call(field, format string, args ...any) {
	g.c.open("if err := "+format+"; err != nil", args...)
	g.c.line("return wire.FieldErr(%q, %q, err)", g.plan.Name, field)
	g.c.close()
}

func (g *encoder) scalar(f *analyzer.ResolvedField, src string) error {
	em, err := scalar(f.Type)
	if err != nil {
		return err
	}
	g.call(f.Name, "%s", em.encode(emitCtx{src: src, goType: f.GoType, order: f.ByteOrder}))
	return nil
}

func (g *encoder) checkSize(f *analyzer.ResolvedField, src string) {
	if f.Strategy != analyzer.FixedCompound {
		return
	}
	c := &g.c
	c.open("if %s != %d", lengthExpr(f, src), f.Size)
	c.line("return wire.FieldErr(%q, %q, wire.ErrSizeMismatch)", g.plan.Name, f.Name)
	c.close()
}

func (g *encoder) elements(f *analyzer.ResolvedField, src string) error {
	c := &g.c
	c.open("for i := range %s", src)
	elem := src + "[i]"
	if f.Elem.Repr == analyzer.ReprScalar {
		em, err := scalar(f.Elem.Type)
		if err != nil {
			return err
		}
		g.call(f.Name, "%s", em.encode(emitCtx{src: elem, goType: f.Elem.GoType, order: f.ByteOrder}))
	} else {
		g.call(f.Name, "%s.EncodeBinary(e)", elem)
	}
	c.close()
	return nil
}

func (g *encoder) enum() error {
	p := g.plan
	c := &g.c

	c.line("// VariantTag returns the tag of the variant that is set. Exactly one")
	c.line("// variant must be set.")
	c.open("func (p *%s) VariantTag() (uint64, error)", p.Name)
	c.line("var tag uint64")
	c.line("n := 0")
	for _, f := range p.Fields {
		c.open("if p.%s != nil", f.Name)
		c.line("tag = %d", f.Tag)
		c.line("n++")
		c.close()
	}
	c.line("switch n {")
	c.line("case 0:")
	c.line("\treturn 0, wire.ErrNoVariant")
	c.line("case 1:")
	c.line("\treturn tag, nil")
	c.line("}")
	c.line("return 0, wire.ErrMultipleVariants")
	c.close()
	c.blank()

	c.line("// EncodeVariant writes the payload of the set variant without its tag.")
	c.open("func (p *%s) EncodeVariant(e *wire.Encoder) error", p.Name)
	c.open("if _, err := p.VariantTag(); err != nil")
	c.line("return err")
	c.close()
	c.line("switch {")
	for i := range p.Fields {
		f := &p.Fields[i]
		c.line("case p.%s != nil:", f.Name)
		c.depth++
		if f.Elem.Repr == analyzer.ReprScalar {
			em, err := scalar(f.Elem.Type)
			if err != nil {
				return err
			}
			g.call(f.Name, "%s", em.encode(emitCtx{src: "*p." + f.Name, goType: f.Elem.GoType, order: f.ByteOrder}))
		} else {
			g.call(f.Name, "p.%s.EncodeBinary(e)", f.Name)
		}
		c.depth--
	}
	c.line("}")
	c.line("return nil")
	c.close()

	if p.TagType == "" {
		return nil
	}
	c.blank()

	em, err := scalar(p.TagType)
	if err != nil {
		return err
	}
	c.line("// EncodeBinary writes the tag of the set variant followed by its payload.")
	c.open("func (p *%s) EncodeBinary(e *wire.Encoder) error", p.Name)
	c.line("tag, err := p.VariantTag()")
	c.open("if err != nil")
	c.line("return err")
	c.close()
	c.open("if err := %s; err != nil", em.encode(emitCtx{src: "tag", goType: "uint64", order: p.ByteOrder}))
	c.line("return err")
	c.close()
	c.line("return p.EncodeVariant(e)")
	c.close()
	c.blank()

	g.marshal()
	return nil
}
