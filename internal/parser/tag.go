package parser

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// ParseTag parses bin struct tags
//
// Semantics:
//   - ""                      : default options, field is on the wire as its type dictates
//   - "-"                     : field is not on the wire
//   - "byte_order=big|little" : byte order override
//   - "length_of=Field"       : this field carries the byte length of Field
//   - "len=Field"             : this field's byte length comes from the earlier Field
//   - "size=N"                : []byte, string or []T with a fixed byte size N
//   - "discriminant=Field"    : enum field whose variant tag is carried by the earlier Field
//   - "tag=N"                 : variant tag, only inside an enum structure
//   - "terminal"              : consumes every remaining byte, last field only
//   - "skip_if=<predicate>"   : absent from the wire when predicate holds; must come last
//
// Examples:
//
//	"length_of=Payload"
//	"len=PayloadLen,byte_order=big"
//	"tag=0x02"
//	"skip_if=Flags&0x01 == 0"
func ParseTag(tag string) (FieldOptions, error) {
	var f FieldOptions

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return f, nil
	}
	if tag == "-" {
		f.Skip = true
		return f, nil
	}

	seen := map[string]bool{}
	rest := tag
	for rest != "" {
		var part string
		if strings.HasPrefix(strings.TrimSpace(rest), "skip_if=") {
			// The predicate may itself contain commas.
			part, rest = rest, ""
		} else {
			part, rest, _ = strings.Cut(rest, ",")
		}
		part = strings.TrimSpace(part)
		if part == "" {
			return f, fmt.Errorf("empty option in tag %q", tag)
		}

		key, value, hasValue := strings.Cut(part, "=")
		if seen[key] {
			return f, fmt.Errorf("duplicate option: %s", key)
		}
		seen[key] = true

		if key == "terminal" {
			if hasValue {
				return f, fmt.Errorf("terminal takes no value")
			}
			f.Terminal = true
			continue
		}
		if !hasValue {
			return f, fmt.Errorf("unknown option: %s", part)
		}
		value = strings.TrimSpace(value)

		switch key {
		case "byte_order":
			order, err := ParseByteOrder(value)
			if err != nil {
				return f, err
			}
			f.ByteOrder = order

		case "length_of":
			if err := checkFieldName(key, value); err != nil {
				return f, err
			}
			f.LengthOf = value

		case "len":
			if err := checkFieldName(key, value); err != nil {
				return f, err
			}
			f.Len = value

		case "discriminant":
			if err := checkFieldName(key, value); err != nil {
				return f, err
			}
			f.Discriminant = value

		case "size":
			size, err := strconv.Atoi(value)
			if err != nil {
				return f, fmt.Errorf("invalid size: %s", value)
			}
			if size <= 0 {
				return f, fmt.Errorf("size must be positive, got: %d", size)
			}
			f.Size = size

		case "tag":
			t, err := strconv.ParseUint(value, 0, 64)
			if err != nil {
				return f, fmt.Errorf("invalid tag literal: %s", value)
			}
			f.Tag = t
			f.HasTag = true

		case "skip_if":
			pred, err := ParsePredicate(value)
			if err != nil {
				return f, err
			}
			f.SkipIf = pred

		default:
			return f, fmt.Errorf("unknown option: %s", key)
		}
	}

	if err := checkConflicts(f); err != nil {
		return f, err
	}
	return f, nil
}

func checkFieldName(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s= requires field name", key)
	}
	if !token.IsIdentifier(value) {
		return fmt.Errorf("%s=%s is not a field name", key, value)
	}
	return nil
}

// checkConflicts rejects option combinations that can never be valid,
// whatever the field's type.
func checkConflicts(f FieldOptions) error {
	type pair struct {
		a, b   string
		ha, hb bool
	}
	pairs := []pair{
		{"size", "len", f.Size > 0, f.Len != ""},
		{"size", "terminal", f.Size > 0, f.Terminal},
		{"len", "terminal", f.Len != "", f.Terminal},
		{"len", "length_of", f.Len != "", f.LengthOf != ""},
		{"len", "skip_if", f.Len != "", f.SkipIf != nil},
		{"length_of", "skip_if", f.LengthOf != "", f.SkipIf != nil},
		{"length_of", "terminal", f.LengthOf != "", f.Terminal},
		{"discriminant", "len", f.Discriminant != "", f.Len != ""},
		{"discriminant", "size", f.Discriminant != "", f.Size > 0},
		{"discriminant", "terminal", f.Discriminant != "", f.Terminal},
		{"discriminant", "length_of", f.Discriminant != "", f.LengthOf != ""},
		{"tag", "discriminant", f.HasTag, f.Discriminant != ""},
		{"tag", "length_of", f.HasTag, f.LengthOf != ""},
		{"tag", "len", f.HasTag, f.Len != ""},
		{"tag", "terminal", f.HasTag, f.Terminal},
		{"tag", "skip_if", f.HasTag, f.SkipIf != nil},
	}
	for _, p := range pairs {
		if p.ha && p.hb {
			return fmt.Errorf("%s and %s cannot be combined", p.a, p.b)
		}
	}
	return nil
}
