package analyzer

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alexhholmes/binstruct/internal/logging"
	"github.com/alexhholmes/binstruct/internal/parser"
	"github.com/alexhholmes/binstruct/wire"
)

// Resolve turns a structure descriptor into a validated LayoutPlan. The
// first configuration error found is returned as a *parser.ConfigError and
// no plan is produced. Plans are cached in the registry.
func Resolve(desc *parser.StructureDescriptor, reg *TypeRegistry) (*LayoutPlan, error) {
	if desc == nil {
		return nil, fmt.Errorf("structure is nil")
	}
	if plan, ok := reg.plans[desc.Name]; ok {
		return plan, nil
	}

	reg.RegisterStruct(desc)
	reg.resolving[desc.Name] = true
	defer delete(reg.resolving, desc.Name)

	r := &resolver{desc: desc, reg: reg, index: make(map[string]int, len(desc.Fields))}
	plan, err := r.resolve()
	if err != nil {
		logging.Logger().Debug("layout rejected",
			zap.String("struct", desc.Name),
			zap.Error(err))
		return nil, err
	}

	reg.plans[desc.Name] = plan
	logging.Logger().Debug("layout resolved",
		zap.String("struct", plan.Name),
		zap.Stringer("kind", plan.Kind),
		zap.Int("fields", len(plan.Fields)),
		zap.Int("static_size", plan.StaticSize))
	return plan, nil
}

// ResolveAll registers every structure of the given files and resolves
// them. Plans are returned for the valid structures; the error aggregates
// the configuration errors of all others.
func ResolveAll(reg *TypeRegistry, files ...*parser.File) ([]*LayoutPlan, error) {
	for _, f := range files {
		reg.RegisterFile(f)
	}

	var plans []*LayoutPlan
	var errs error
	for _, f := range files {
		for _, s := range f.Structs {
			plan, err := Resolve(s, reg)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			plans = append(plans, plan)
		}
	}
	return plans, errs
}

type resolver struct {
	desc  *parser.StructureDescriptor
	reg   *TypeRegistry
	index map[string]int
}

func (r *resolver) errf(kind parser.ErrorKind, fd *parser.FieldDescriptor, format string, args ...any) error {
	if fd == nil {
		return parser.ConfigErrorf(kind, r.desc.Pos, r.desc.Name, "", format, args...)
	}
	return parser.ConfigErrorf(kind, fd.Pos, r.desc.Name, fd.Name, format, args...)
}

func (r *resolver) resolve() (*LayoutPlan, error) {
	plan := &LayoutPlan{
		Name:      r.desc.Name,
		Pos:       r.desc.Pos,
		Kind:      r.desc.Options.Kind,
		Align:     r.desc.Options.Align,
		TagType:   r.desc.Options.TagType,
		ByteOrder: r.desc.Options.ByteOrder,
	}

	// Phase 1: structure default byte order, else the global default
	if plan.ByteOrder == parser.OrderUnspecified {
		plan.ByteOrder = r.reg.DefaultByteOrder()
	}

	// Phase 2: classify every field
	for i := range r.desc.Fields {
		fd := &r.desc.Fields[i]
		if _, dup := r.index[fd.Name]; dup {
			return nil, r.errf(parser.KindConflictingOptions, fd, "duplicate field name")
		}
		r.index[fd.Name] = i

		rf, err := r.classify(i, fd, plan.ByteOrder)
		if err != nil {
			return nil, err
		}
		plan.Fields = append(plan.Fields, rf)
	}

	if plan.IsEnum() {
		if err := r.checkEnum(plan); err != nil {
			return nil, err
		}
		plan.StaticSize = -1
		return plan, nil
	}

	// Phase 3: cross-field references, one backward-only scan
	if err := r.resolveReferences(plan); err != nil {
		return nil, err
	}

	// Phase 4: terminal placement
	if err := r.checkTerminal(plan); err != nil {
		return nil, err
	}

	plan.StaticSize = staticSize(plan)
	return plan, nil
}

// effectiveOrder applies a field override on top of the structure default.
func effectiveOrder(opts parser.FieldOptions, structOrder parser.ByteOrder) parser.ByteOrder {
	if opts.ByteOrder != parser.OrderUnspecified {
		return opts.ByteOrder
	}
	return structOrder
}

// hasByteOrder reports whether a byte order changes the encoding of elem.
func hasByteOrder(e *Elem) bool {
	return e != nil && e.Repr == ReprScalar && e.Size > 1
}

func (r *resolver) classify(i int, fd *parser.FieldDescriptor, structOrder parser.ByteOrder) (ResolvedField, error) {
	opts := fd.Options
	rf := ResolvedField{
		Index:           i,
		Name:            fd.Name,
		GoType:          fd.GoType,
		Type:            r.reg.ResolveType(fd.GoType),
		Pos:             fd.Pos,
		ByteOrder:       effectiveOrder(opts, structOrder),
		Size:            -1,
		LengthRef:       -1,
		LengthOf:        -1,
		DiscriminantRef: -1,
		DiscriminantOf:  -1,
		Condition:       opts.SkipIf,
	}

	if r.desc.IsEnum() {
		return r.classifyVariant(rf, fd)
	}
	if opts.HasTag {
		return rf, r.errf(parser.KindConflictingOptions, fd, "tag is only valid on the variants of an enum structure")
	}
	if opts.Skip {
		rf.Repr = ReprSkipped
		rf.Strategy = Skipped
		rf.Size = 0
		return rf, nil
	}

	t := rf.Type
	switch {
	case IsScalar(t):
		rf.Repr = ReprScalar
		rf.Strategy = FixedScalar
		rf.Size = scalars[t].size
		if opts.ByteOrder != parser.OrderUnspecified && rf.Size == 1 {
			return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order has no effect on %s", fd.GoType)
		}

	case t == "string" || t == "[]byte" || t == "[]uint8":
		rf.Repr = ReprBlob
		if opts.ByteOrder != parser.OrderUnspecified {
			return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order has no effect on %s", fd.GoType)
		}

	case strings.HasPrefix(t, "[]"):
		elem, err := r.elem(fd, t[2:])
		if err != nil {
			return rf, err
		}
		if elem.Size < 0 {
			return rf, r.errf(parser.KindUnsupportedType, fd, "slice elements must have a static size, %s does not", elem.GoType)
		}
		rf.Repr = ReprSlice
		rf.Elem = elem
		if opts.ByteOrder != parser.OrderUnspecified && !hasByteOrder(elem) {
			return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order has no effect on %s", fd.GoType)
		}

	case strings.HasPrefix(t, "["):
		n, elemType, err := splitArray(t)
		if err != nil {
			return rf, r.errf(parser.KindUnsupportedType, fd, "%v", err)
		}
		elem, err := r.elem(fd, elemType)
		if err != nil {
			return rf, err
		}
		if elem.Size < 0 {
			return rf, r.errf(parser.KindUnsupportedType, fd, "array elements must have a static size, %s does not", elem.GoType)
		}
		rf.Repr = ReprArray
		rf.Strategy = FixedCompound
		rf.Elem = elem
		rf.ArrayLen = n
		rf.Size = n * elem.Size
		if opts.ByteOrder != parser.OrderUnspecified && !hasByteOrder(elem) {
			return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order has no effect on %s", fd.GoType)
		}

	case strings.HasPrefix(t, "*"):
		return rf, r.errf(parser.KindUnsupportedType, fd, "pointer fields are only valid as enum variants")

	default:
		if opts.ByteOrder != parser.OrderUnspecified {
			return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order is not valid on nested structure %s", fd.GoType)
		}
		if r.reg.resolving[t] {
			return rf, r.errf(parser.KindUnsupportedType, fd, "%s contains itself; recursion is only possible through an enum variant", t)
		}
		elem, err := r.elem(fd, t)
		if err != nil {
			return rf, err
		}
		rf.Repr = elem.Repr
		if elem.Repr == ReprEnum {
			rf.Enum = r.enumInfo(elem.Type)
		}
		switch {
		case elem.Terminal:
			rf.Strategy = Terminal
		case elem.Size >= 0:
			rf.Strategy = FixedCompound
			rf.Size = elem.Size
		default:
			rf.Strategy = SelfDelimited
		}
	}

	if err := r.applySizing(&rf, fd); err != nil {
		return rf, err
	}
	return rf, nil
}

// applySizing applies size=, len= and terminal, and the options that are
// only valid on particular representations.
func (r *resolver) applySizing(rf *ResolvedField, fd *parser.FieldDescriptor) error {
	opts := fd.Options
	variable := rf.Repr == ReprBlob || rf.Repr == ReprSlice

	switch {
	case opts.Size > 0:
		if !variable {
			return r.errf(parser.KindConflictingOptions, fd, "size is only valid on []byte, string and slice fields")
		}
		if rf.Repr == ReprSlice && opts.Size%rf.Elem.Size != 0 {
			return r.errf(parser.KindConflictingOptions, fd, "size=%d is not a multiple of the %d-byte element size",
				opts.Size, rf.Elem.Size)
		}
		rf.Strategy = FixedCompound
		rf.Size = opts.Size

	case opts.Len != "":
		if !variable {
			return r.errf(parser.KindConflictingOptions, fd, "len is only valid on []byte, string and slice fields")
		}
		rf.Strategy = LengthReferenced

	case opts.Terminal:
		if !variable {
			return r.errf(parser.KindConflictingOptions, fd, "terminal is only valid on []byte, string and slice fields")
		}
		rf.Strategy = Terminal

	case variable:
		return r.errf(parser.KindMissingLength, fd, "%s needs len=, size= or terminal", fd.GoType)
	}

	if opts.LengthOf != "" && !(rf.Repr == ReprScalar && IsUnsigned(rf.Type)) {
		return r.errf(parser.KindInvalidLengthSource, fd, "length_of requires an unsigned integer field, got %s", fd.GoType)
	}

	if opts.Discriminant != "" && rf.Repr != ReprEnum {
		return r.errf(parser.KindConflictingOptions, fd, "discriminant is only valid on enum fields")
	}
	if rf.Repr == ReprEnum {
		if opts.Discriminant == "" && rf.Enum.TagType == "" {
			return r.errf(parser.KindMissingDiscriminant, fd,
				"enum %s has no tag_type, so the field needs discriminant=", rf.Type)
		}
		if opts.Discriminant != "" && opts.SkipIf != nil {
			return r.errf(parser.KindConflictingOptions, fd, "a discriminated enum field cannot carry skip_if")
		}
	}
	return nil
}

// elem classifies an element or payload type: a scalar, an annotated
// structure or enum, or a registered external type. Sizes come from the
// registry.
func (r *resolver) elem(fd *parser.FieldDescriptor, goType string) (*Elem, error) {
	t := r.reg.ResolveType(goType)
	e := &Elem{GoType: goType, Type: t}

	desc, annotated := r.reg.Struct(t)
	_, external := r.reg.Lookup(t)
	switch {
	case IsScalar(t):
		e.Repr = ReprScalar
	case annotated && desc.IsEnum():
		e.Repr = ReprEnum
	case annotated, external:
		e.Repr = ReprNested
	case strings.HasPrefix(t, "[") || t == "string":
		return nil, r.errf(parser.KindUnsupportedType, fd, "%s cannot be used as an element type", goType)
	case strings.HasPrefix(t, "*"):
		return nil, r.errf(parser.KindUnsupportedType, fd, "pointer fields are only valid as enum variants")
	case strings.Contains(t, "."):
		return nil, r.errf(parser.KindUnsupportedType, fd, "unknown type %s (register external types explicitly)", goType)
	default:
		return nil, r.errf(parser.KindUnsupportedType, fd, "unknown type %s (not annotated with @binstruct)", goType)
	}

	// A structure still being resolved is reached through an enum variant
	// and sizes as -1.
	size, err := r.reg.SizeOf(t)
	if err != nil {
		return nil, r.errf(parser.KindUnsupportedType, fd, "nested structure %s is invalid", t)
	}
	e.Size = size
	if plan, ok := r.reg.plans[t]; ok {
		e.Terminal = plan.Terminal
	}
	return e, nil
}

// enumInfo builds the use-site view of an enum from its descriptor, which
// also works while the enum itself is still being resolved.
func (r *resolver) enumInfo(name string) *EnumInfo {
	desc, _ := r.reg.Struct(name)
	info := &EnumInfo{Name: name, TagType: desc.Options.TagType}
	for _, f := range desc.Fields {
		info.Variants = append(info.Variants, Variant{Name: f.Name, Tag: f.Options.Tag})
	}
	return info
}

func (r *resolver) classifyVariant(rf ResolvedField, fd *parser.FieldDescriptor) (ResolvedField, error) {
	opts := fd.Options
	if opts.Skip {
		return rf, r.errf(parser.KindConflictingOptions, fd, "enum variants cannot be skipped")
	}
	if !opts.HasTag {
		return rf, r.errf(parser.KindConflictingOptions, fd, "enum variants need tag=")
	}
	if opts.Size > 0 || opts.LengthOf != "" {
		return rf, r.errf(parser.KindConflictingOptions, fd, "enum variants only accept tag= and byte_order=")
	}
	if !strings.HasPrefix(fd.GoType, "*") {
		return rf, r.errf(parser.KindUnsupportedType, fd, "enum variant must be a pointer, got %s", fd.GoType)
	}

	elem, err := r.elem(fd, fd.GoType[1:])
	if err != nil {
		return rf, err
	}
	if elem.Repr == ReprEnum {
		if desc, _ := r.reg.Struct(elem.Type); desc.Options.TagType == "" {
			return rf, r.errf(parser.KindMissingDiscriminant, fd,
				"enum %s nested in a variant needs a tag_type", elem.Type)
		}
	}
	if opts.ByteOrder != parser.OrderUnspecified && !hasByteOrder(elem) {
		return rf, r.errf(parser.KindConflictingOptions, fd, "byte_order has no effect on %s", fd.GoType)
	}

	rf.Repr = ReprVariant
	rf.Type = elem.Type
	rf.Elem = elem
	rf.Tag = opts.Tag
	switch {
	case elem.Terminal:
		rf.Strategy = Terminal
	case elem.Repr == ReprScalar:
		rf.Strategy = FixedScalar
		rf.Size = elem.Size
	case elem.Size >= 0:
		rf.Strategy = FixedCompound
		rf.Size = elem.Size
	default:
		rf.Strategy = SelfDelimited
	}
	return rf, nil
}

// ref resolves a reference made by field i to an index strictly before i.
func (r *resolver) ref(i int, fd *parser.FieldDescriptor, option, name string) (int, error) {
	j, ok := r.index[name]
	if !ok {
		return 0, r.errf(parser.KindUnknownReference, fd, "%s refers to %s, which is not a field of %s", option, name, r.desc.Name)
	}
	if j >= i {
		return 0, r.errf(parser.KindForwardReference, fd, "%s refers to %s, which is not declared before %s", option, name, fd.Name)
	}
	return j, nil
}

func (r *resolver) resolveReferences(plan *LayoutPlan) error {
	for i := range plan.Fields {
		f := &plan.Fields[i]
		fd := &r.desc.Fields[i]
		opts := fd.Options

		if opts.Len != "" {
			j, err := r.ref(i, fd, "len", opts.Len)
			if err != nil {
				return err
			}
			src := &plan.Fields[j]
			switch {
			case src.Repr != ReprScalar || !IsUnsigned(src.Type):
				return r.errf(parser.KindInvalidLengthSource, fd, "length source %s must be an unsigned integer, got %s", src.Name, src.GoType)
			case src.Condition != nil:
				return r.errf(parser.KindInvalidLengthSource, fd, "length source %s is conditional", src.Name)
			case src.LengthOf >= 0:
				return r.errf(parser.KindInvalidLengthSource, fd, "%s already carries the length of %s", src.Name, plan.Fields[src.LengthOf].Name)
			case src.DiscriminantOf >= 0:
				return r.errf(parser.KindInvalidLengthSource, fd, "%s already carries the tag of %s", src.Name, plan.Fields[src.DiscriminantOf].Name)
			}
			if lo := r.desc.Fields[j].Options.LengthOf; lo != "" && lo != f.Name {
				return r.errf(parser.KindInvalidLengthSource, fd, "%s declares length_of=%s", src.Name, lo)
			}
			f.LengthRef = j
			src.LengthOf = i
		}

		if opts.SkipIf != nil {
			for _, name := range opts.SkipIf.Refs() {
				j, err := r.ref(i, fd, "skip_if", name)
				if err != nil {
					return err
				}
				src := &plan.Fields[j]
				if src.Repr != ReprScalar {
					return r.errf(parser.KindInvalidPredicate, fd, "skip_if can only read scalar fields, %s is %s", name, src.GoType)
				}
				f.ConditionRefs = append(f.ConditionRefs, j)
				src.PredicateInput = true
			}
			if err := r.checkPredicate(plan, fd, opts.SkipIf, f.ConditionRefs); err != nil {
				return err
			}
		}

		if opts.Discriminant != "" {
			j, err := r.ref(i, fd, "discriminant", opts.Discriminant)
			if err != nil {
				return err
			}
			src := &plan.Fields[j]
			switch {
			case src.Repr != ReprScalar || !IsUnsigned(src.Type):
				return r.errf(parser.KindInvalidDiscriminant, fd, "discriminant %s must be an unsigned integer, got %s", src.Name, src.GoType)
			case src.Condition != nil:
				return r.errf(parser.KindInvalidDiscriminant, fd, "discriminant %s is conditional", src.Name)
			case src.LengthOf >= 0:
				return r.errf(parser.KindInvalidDiscriminant, fd, "%s already carries the length of %s", src.Name, plan.Fields[src.LengthOf].Name)
			case src.DiscriminantOf >= 0:
				return r.errf(parser.KindInvalidDiscriminant, fd, "%s already carries the tag of %s", src.Name, plan.Fields[src.DiscriminantOf].Name)
			}
			for _, v := range f.Enum.Variants {
				if !fits(v.Tag, src.Bits()) {
					return r.errf(parser.KindTagOverflow, fd, "tag %d of %s.%s does not fit %s %s",
						v.Tag, f.Enum.Name, v.Name, src.Name, src.GoType)
				}
			}
			f.DiscriminantRef = j
			src.DiscriminantOf = i
		}
	}

	// A length_of must name a field that reads its length from here.
	for i := range r.desc.Fields {
		fd := &r.desc.Fields[i]
		target := fd.Options.LengthOf
		if target == "" {
			continue
		}
		j, ok := r.index[target]
		if !ok {
			return r.errf(parser.KindUnknownReference, fd, "length_of refers to %s, which is not a field of %s", target, r.desc.Name)
		}
		if plan.Fields[j].LengthRef != i {
			return r.errf(parser.KindInvalidLengthSource, fd, "length_of=%s but %s does not declare len=%s", target, target, fd.Name)
		}
	}
	return nil
}

func (r *resolver) checkTerminal(plan *LayoutPlan) error {
	last := -1
	for i, f := range plan.Fields {
		if f.Strategy != Skipped {
			last = i
		}
	}

	for i := range plan.Fields {
		f := &plan.Fields[i]
		if f.Strategy != Terminal {
			continue
		}
		fd := &r.desc.Fields[i]
		if plan.Terminal {
			return r.errf(parser.KindMisplacedTerminal, fd, "only one terminal field is allowed")
		}
		if i != last {
			return r.errf(parser.KindMisplacedTerminal, fd, "terminal field must be the last field, %s follows it", plan.Fields[last].Name)
		}
		plan.Terminal = true
	}

	if plan.Terminal && plan.Align > 0 {
		return r.errf(parser.KindConflictingOptions, nil, "align cannot be combined with a terminal field")
	}
	return nil
}

func (r *resolver) checkEnum(plan *LayoutPlan) error {
	if len(plan.Fields) == 0 {
		return r.errf(parser.KindUnsupportedType, nil, "enum has no variants")
	}

	tagBits := 64
	if plan.TagType != "" {
		tagBits = scalars[plan.TagType].size * 8
	}

	seen := make(map[uint64]string, len(plan.Fields))
	for i := range plan.Fields {
		f := &plan.Fields[i]
		fd := &r.desc.Fields[i]
		if prev, dup := seen[f.Tag]; dup {
			return r.errf(parser.KindDuplicateTag, fd, "tag %d is already used by %s", f.Tag, prev)
		}
		seen[f.Tag] = f.Name
		if !fits(f.Tag, tagBits) {
			return r.errf(parser.KindTagOverflow, fd, "tag %d does not fit tag_type %s", f.Tag, plan.TagType)
		}
		if f.Strategy == Terminal {
			plan.Terminal = true
		}
	}
	return nil
}

func fits(v uint64, bits int) bool {
	return bits >= 64 || v <= (uint64(1)<<bits)-1
}

// staticSize returns the encoded size when it does not depend on the value.
func staticSize(plan *LayoutPlan) int {
	size := 0
	for _, f := range plan.Fields {
		switch f.Strategy {
		case Skipped:
			continue
		case FixedScalar, FixedCompound:
			if f.Condition != nil {
				return -1
			}
			size += f.Size
		default:
			return -1
		}
	}
	return size + wire.Padding(size, plan.Align)
}
