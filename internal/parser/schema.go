package parser

import (
	"bytes"
	"fmt"
	"go/token"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Schema is the YAML form of a set of layouts. Types declared in a schema
// are emitted together with their generated methods.
//
//	package: proto
//	byte_order: big
//	aliases:
//	  PageID: uint64
//	structs:
//	  - name: Frame
//	    fields:
//	      - {name: Count, type: uint8, length_of: Data}
//	      - {name: Data, type: "[]byte", len: Count}
//	enums:
//	  - name: Body
//	    tag_type: uint8
//	    variants:
//	      - {name: Ping, type: Ping, tag: 1}
type Schema struct {
	Package   string            `yaml:"package"`
	ByteOrder string            `yaml:"byte_order"`
	Aliases   map[string]string `yaml:"aliases"`
	Structs   []SchemaStruct    `yaml:"structs"`
	Enums     []SchemaEnum      `yaml:"enums"`
}

type SchemaStruct struct {
	Name      string        `yaml:"name"`
	ByteOrder string        `yaml:"byte_order"`
	Align     int           `yaml:"align"`
	Fields    []SchemaField `yaml:"fields"`
}

type SchemaEnum struct {
	Name      string          `yaml:"name"`
	ByteOrder string          `yaml:"byte_order"`
	TagType   string          `yaml:"tag_type"`
	Variants  []SchemaVariant `yaml:"variants"`
}

type SchemaField struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	ByteOrder    string `yaml:"byte_order"`
	LengthOf     string `yaml:"length_of"`
	Len          string `yaml:"len"`
	Size         int    `yaml:"size"`
	SkipIf       string `yaml:"skip_if"`
	Discriminant string `yaml:"discriminant"`
	Terminal     bool   `yaml:"terminal"`
}

type SchemaVariant struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Tag       uint64 `yaml:"tag"`
	ByteOrder string `yaml:"byte_order"`
}

// ParseSchemaFile reads and parses a YAML schema file.
func ParseSchemaFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(filename, data)
}

// ParseSchema parses a YAML schema into descriptors. Unknown keys are
// rejected.
func ParseSchema(filename string, data []byte) (*File, error) {
	var s Schema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", filename, err)
	}
	if s.Package == "" {
		return nil, fmt.Errorf("parse schema %s: package is required", filename)
	}

	f := &File{
		Package: s.Package,
		Path:    filename,
		Aliases: make(map[string]string),
		Declare: true,
	}
	for alias, underlying := range s.Aliases {
		f.Aliases[alias] = underlying
	}

	var errs error
	for i, ss := range s.Structs {
		pos := fmt.Sprintf("%s:structs[%d]", filename, i)
		desc, err := schemaStruct(pos, s.ByteOrder, ss)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		f.Structs = append(f.Structs, desc)
	}
	for i, se := range s.Enums {
		pos := fmt.Sprintf("%s:enums[%d]", filename, i)
		desc, err := schemaEnum(pos, s.ByteOrder, se)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		f.Structs = append(f.Structs, desc)
	}
	if errs != nil {
		return nil, errs
	}
	return f, nil
}

func schemaOrder(own, fallback string) (ByteOrder, error) {
	if own == "" {
		own = fallback
	}
	if own == "" {
		return OrderUnspecified, nil
	}
	return ParseByteOrder(own)
}

func schemaStruct(pos, fileOrder string, ss SchemaStruct) (*StructureDescriptor, error) {
	if !token.IsIdentifier(ss.Name) {
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, ss.Name, "", "invalid structure name")
	}
	order, err := schemaOrder(ss.ByteOrder, fileOrder)
	if err != nil {
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, ss.Name, "", "%v", err)
	}
	if ss.Align < 0 || (ss.Align&(ss.Align-1)) != 0 {
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, ss.Name, "", "align must be a power of 2, got: %d", ss.Align)
	}

	desc := &StructureDescriptor{
		Name:    ss.Name,
		Pos:     pos,
		Options: StructOptions{Kind: KindStruct, ByteOrder: order, Align: ss.Align},
	}

	var errs error
	for i, sf := range ss.Fields {
		fpos := fmt.Sprintf("%s.fields[%d]", pos, i)
		field, err := schemaField(fpos, ss.Name, sf)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		desc.Fields = append(desc.Fields, field)
	}
	return desc, errs
}

func schemaField(pos, structName string, sf SchemaField) (FieldDescriptor, error) {
	fd := FieldDescriptor{Name: sf.Name, GoType: sf.Type, Pos: pos}
	if !token.IsIdentifier(sf.Name) || !token.IsExported(sf.Name) {
		return fd, ConfigErrorf(KindInvalidAnnotation, pos, structName, sf.Name, "field name must be an exported identifier")
	}
	if sf.Type == "" {
		return fd, ConfigErrorf(KindUnsupportedType, pos, structName, sf.Name, "type is required")
	}

	opts := FieldOptions{
		LengthOf:     sf.LengthOf,
		Len:          sf.Len,
		Size:         sf.Size,
		Discriminant: sf.Discriminant,
		Terminal:     sf.Terminal,
	}
	if sf.ByteOrder != "" {
		order, err := ParseByteOrder(sf.ByteOrder)
		if err != nil {
			return fd, ConfigErrorf(KindConflictingOptions, pos, structName, sf.Name, "%v", err)
		}
		opts.ByteOrder = order
	}
	if sf.Size < 0 {
		return fd, ConfigErrorf(KindConflictingOptions, pos, structName, sf.Name, "size must be positive, got: %d", sf.Size)
	}
	for key, ref := range map[string]string{"length_of": sf.LengthOf, "len": sf.Len, "discriminant": sf.Discriminant} {
		if ref == "" {
			continue
		}
		if err := checkFieldName(key, ref); err != nil {
			return fd, ConfigErrorf(KindConflictingOptions, pos, structName, sf.Name, "%v", err)
		}
	}
	if sf.SkipIf != "" {
		pred, err := ParsePredicate(sf.SkipIf)
		if err != nil {
			return fd, ConfigErrorf(KindInvalidPredicate, pos, structName, sf.Name, "%v", err)
		}
		opts.SkipIf = pred
	}
	if err := checkConflicts(opts); err != nil {
		return fd, ConfigErrorf(KindConflictingOptions, pos, structName, sf.Name, "%v", err)
	}

	fd.Options = opts
	return fd, nil
}

func schemaEnum(pos, fileOrder string, se SchemaEnum) (*StructureDescriptor, error) {
	if !token.IsIdentifier(se.Name) {
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, se.Name, "", "invalid enum name")
	}
	order, err := schemaOrder(se.ByteOrder, fileOrder)
	if err != nil {
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, se.Name, "", "%v", err)
	}
	switch se.TagType {
	case "", "uint8", "byte", "uint16", "uint32", "uint64":
	default:
		return nil, ConfigErrorf(KindInvalidAnnotation, pos, se.Name, "",
			"tag_type must be an unsigned integer type, got: %s", se.TagType)
	}

	desc := &StructureDescriptor{
		Name:    se.Name,
		Pos:     pos,
		Options: StructOptions{Kind: KindEnum, ByteOrder: order, TagType: se.TagType},
	}
	for i, v := range se.Variants {
		vpos := fmt.Sprintf("%s.variants[%d]", pos, i)
		if !token.IsIdentifier(v.Name) || !token.IsExported(v.Name) {
			return nil, ConfigErrorf(KindInvalidAnnotation, vpos, se.Name, v.Name, "variant name must be an exported identifier")
		}
		opts := FieldOptions{Tag: v.Tag, HasTag: true}
		if v.ByteOrder != "" {
			o, err := ParseByteOrder(v.ByteOrder)
			if err != nil {
				return nil, ConfigErrorf(KindConflictingOptions, vpos, se.Name, v.Name, "%v", err)
			}
			opts.ByteOrder = o
		}
		desc.Fields = append(desc.Fields, FieldDescriptor{
			Name:    v.Name,
			GoType:  "*" + v.Type,
			Pos:     vpos,
			Options: opts,
		})
	}
	return desc, nil
}
