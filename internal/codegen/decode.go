package codegen

import (
	"fmt"

	"github.com/alexhholmes/binstruct/internal/analyzer"
)

// decoder emits the decode direction of one plan.
type decoder struct {
	plan *analyzer.LayoutPlan
	c    code
}

// GenerateDecode emits DecodeBinary and UnmarshalBinary for a structure, or
// DecodeVariant (and the tagged methods when it has a tag_type) for an enum.
func GenerateDecode(plan *analyzer.LayoutPlan) (string, error) {
	dec := &decoder{plan: plan}
	var err error
	if plan.IsEnum() {
		err = dec.enum()
	} else {
		err = dec.structure()
	}
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", plan.Name, err)
	}
	return dec.c.String(), nil
}

func (g *decoder) structure() error {
	p := g.plan
	c := &g.c

	c.line("// DecodeBinary reads p from d. p is only modified when the whole")
	c.line("// structure decodes.")
	c.open("func (p *%s) DecodeBinary(d *wire.Decoder) error", p.Name)
	c.line("var v %s", p.Name)
	if p.Align > 0 {
		c.line("start := d.Offset()")
	}
	c.blank()

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
		c.open("if err := d.Align(start, %d); err != nil", p.Align)
		c.line("return wire.FieldErr(%q, \"padding\", err)", p.Name)
		c.close()
	}
	c.line("*p = v")
	c.line("return nil")
	c.close()
	c.blank()

	g.unmarshal()
	return nil
}

func (g *decoder) unmarshal() {
	c := &g.c
	c.line("// UnmarshalBinary implements encoding.BinaryUnmarshaler. b must hold")
	c.line("// exactly one encoded value.")
	c.open("func (p *%s) UnmarshalBinary(b []byte) error", g.plan.Name)
	c.line("d := wire.NewBytesDecoder(b)")
	c.line("var v %s", g.plan.Name)
	c.open("if err := v.DecodeBinary(d); err != nil")
	c.line("return err")
	c.close()
	c.open("if err := d.Done(); err != nil")
	c.line("return err")
	c.close()
	c.line("*p = v")
	c.line("return nil")
	c.close()
}

func decodedRef(name string) string {
	return "v." + name
}

func (g *decoder) field(f *analyzer.ResolvedField) error {
	c := &g.c
	c.line("%s", describe(g.plan, f))

	if f.Condition == nil {
		return g.value(f)
	}
	c.open("if !(%s)", f.Condition.Render(decodedRef))
	if err := g.value(f); err != nil {
		return err
	}
	c.close()
	return nil
}

func (g *decoder) value(f *analyzer.ResolvedField) error {
	c := &g.c
	p := g.plan
	dst := "v." + f.Name
	tmp := local(f.Name)

	switch f.Repr {
	case analyzer.ReprScalar:
		return g.scalar(f.Name, "d", tmp, dst, f.Type, f.GoType, f)

	case analyzer.ReprBlob:
		if err := g.bytes(f, tmp); err != nil {
			return err
		}
		switch {
		case f.Type == "string" && f.Strategy == analyzer.Terminal:
			c.line("%s = %s(%s)", dst, f.GoType, tmp)
		case f.GoType == "string" || f.GoType == "[]byte" || f.GoType == "[]uint8":
			c.line("%s = %s", dst, tmp)
		default:
			c.line("%s = %s(%s)", dst, f.GoType, tmp)
		}
		return nil

	case analyzer.ReprSlice:
		if err := g.bytes(f, tmp); err != nil {
			return err
		}
		size := f.Elem.Size
		count := fmt.Sprintf("len(%s)", tmp)
		if size > 1 {
			if f.Strategy != analyzer.FixedCompound {
				c.open("if len(%s)%%%d != 0", tmp, size)
				c.line("return wire.FieldErr(%q, %q, wire.ErrLengthMismatch)", p.Name, f.Name)
				c.close()
			}
			count = fmt.Sprintf("len(%s)/%d", tmp, size)
		}
		sub := "d" + f.Name
		c.line("%s = make(%s, %s)", dst, f.GoType, count)
		c.line("%s := wire.NewBytesDecoder(%s)", sub, tmp)
		return g.elements(f, sub, dst)

	case analyzer.ReprArray:
		if isByteElem(f.Elem) {
			c.line("%s, err := d.Bytes(%d)", tmp, f.ArrayLen)
			c.fail(p.Name, f.Name)
			c.line("copy(%s[:], %s)", dst, tmp)
			return nil
		}
		return g.elements(f, "d", dst)

	case analyzer.ReprNested:
		g.call(f.Name, "%s.DecodeBinary(d)", dst)
		return nil

	case analyzer.ReprEnum:
		if f.DiscriminantRef >= 0 {
			g.call(f.Name, "%s.DecodeVariant(d, uint64(v.%s))", dst, p.Fields[f.DiscriminantRef].Name)
		} else {
			g.call(f.Name, "%s.DecodeBinary(d)", dst)
		}
		return nil
	}
	return fmt.Errorf("field %s: cannot decode %s", f.Name, f.Repr)
}

// bytes reads the raw bytes of a blob or slice field into tmp.
func (g *decoder) bytes(f *analyzer.ResolvedField, tmp string) error {
	c := &g.c
	p := g.plan
	text := f.Type == "string"

	switch f.Strategy {
	case analyzer.FixedCompound:
		if text {
			c.line("%s, err := d.String(%d)", tmp, f.Size)
		} else {
			c.line("%s, err := d.Bytes(%d)", tmp, f.Size)
		}
	case analyzer.LengthReferenced:
		src := &p.Fields[f.LengthRef]
		n := fmt.Sprintf("int(v.%s)", src.Name)
		if src.Bits() >= 32 {
			// int may be 32 bits wide
			n = "n" + f.Name
			c.line("%s, err := wire.Length(uint64(v.%s))", n, src.Name)
			c.fail(p.Name, f.Name)
		}
		if text {
			c.line("%s, err := d.String(%s)", tmp, n)
		} else {
			c.line("%s, err := d.Bytes(%s)", tmp, n)
		}
	case analyzer.Terminal:
		c.line("%s, err := d.Remaining()", tmp)
	default:
		return fmt.Errorf("field %s: %s is not a byte length strategy", f.Name, f.Strategy)
	}
	c.fail(p.Name, f.Name)
	return nil
}

func (g *decoder) call(field, format string, args ...any) {
	g.c.open("if err := "+format+"; err != nil", args...)
	g.c.line("return wire.FieldErr(%q, %q, err)", g.plan.Name, field)
	g.c.close()
}

// scalar reads one scalar from dec into tmp and assigns it to dst.
func (g *decoder) scalar(field, dec, tmp, dst, resolved, goType string, f *analyzer.ResolvedField) error {
	em, err := scalar(resolved)
	if err != nil {
		return err
	}
	ctx := emitCtx{dec: dec, goType: goType, order: f.ByteOrder}
	g.c.line("%s, err := %s", tmp, em.decode(ctx))
	g.c.fail(g.plan.Name, field)
	g.c.line("%s = %s", dst, em.conv(ctx, tmp))
	return nil
}

func (g *decoder) elements(f *analyzer.ResolvedField, dec, dst string) error {
	c := &g.c
	c.open("for i := range %s", dst)
	elem := dst + "[i]"
	if f.Elem.Repr == analyzer.ReprScalar {
		if err := g.scalar(f.Name, dec, "x", elem, f.Elem.Type, f.Elem.GoType, f); err != nil {
			return err
		}
	} else {
		g.call(f.Name, "%s.DecodeBinary(%s)", elem, dec)
	}
	c.close()
	return nil
}

func (g *decoder) enum() error {
	p := g.plan
	c := &g.c

	c.line("// DecodeVariant reads the payload of the variant with the given tag and")
	c.line("// makes it the only variant set.")
	c.open("func (p *%s) DecodeVariant(d *wire.Decoder, tag uint64) error", p.Name)
	c.line("var v %s", p.Name)
	c.line("switch tag {")
	for i := range p.Fields {
		f := &p.Fields[i]
		c.line("case %d:", f.Tag)
		c.depth++
		c.line("v.%s = new(%s)", f.Name, f.Elem.GoType)
		if f.Elem.Repr == analyzer.ReprScalar {
			if err := g.scalar(f.Name, "d", local(f.Name), "*v."+f.Name, f.Elem.Type, f.Elem.GoType, f); err != nil {
				return err
			}
		} else {
			g.call(f.Name, "v.%s.DecodeBinary(d)", f.Name)
		}
		c.depth--
	}
	c.line("default:")
	c.line("\treturn &wire.UnknownVariantError{Enum: %q, Tag: tag}", p.Name)
	c.line("}")
	c.line("*p = v")
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
	c.line("// DecodeBinary reads a tag and the payload of the matching variant.")
	c.open("func (p *%s) DecodeBinary(d *wire.Decoder) error", p.Name)
	c.line("tag, err := %s", em.decode(emitCtx{dec: "d", order: p.ByteOrder}))
	c.open("if err != nil")
	c.line("return err")
	c.close()
	if p.TagType == "uint64" {
		c.line("return p.DecodeVariant(d, tag)")
	} else {
		c.line("return p.DecodeVariant(d, uint64(tag))")
	}
	c.close()
	c.blank()

	g.unmarshal()
	return nil
}
