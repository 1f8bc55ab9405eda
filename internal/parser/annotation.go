package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var annotationRe = regexp.MustCompile(`^@binstruct(?:\s+(.*))?$`)

// ParseAnnotation parses a @binstruct annotation from cleaned comment text
//
// Expected format:
//
//	// @binstruct
//	// @binstruct byte_order=big
//	// @binstruct byte_order=little align=4
//	// @binstruct enum
//	// @binstruct enum tag_type=uint16 byte_order=big
//
// Params are space-separated key=value pairs; the bare word "enum" marks a
// closed set of variants.
func ParseAnnotation(comment string) (*StructOptions, error) {
	matches := annotationRe.FindStringSubmatch(strings.TrimSpace(comment))
	if matches == nil {
		return nil, fmt.Errorf("no @binstruct annotation found")
	}

	opts := &StructOptions{}
	seen := map[string]bool{}
	for _, word := range strings.Fields(matches[1]) {
		key, value, hasValue := strings.Cut(word, "=")
		if seen[key] {
			return nil, fmt.Errorf("duplicate parameter: %s", key)
		}
		seen[key] = true

		if !hasValue {
			if key != "enum" {
				return nil, fmt.Errorf("unknown parameter: %s", key)
			}
			opts.Kind = KindEnum
			continue
		}

		switch key {
		case "byte_order":
			order, err := ParseByteOrder(value)
			if err != nil {
				return nil, err
			}
			opts.ByteOrder = order

		case "align":
			align, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid align value: %s", value)
			}
			if align <= 0 || (align&(align-1)) != 0 {
				return nil, fmt.Errorf("align must be a power of 2, got: %d", align)
			}
			opts.Align = align

		case "tag_type":
			switch value {
			case "uint8", "byte", "uint16", "uint32", "uint64":
				opts.TagType = value
			default:
				return nil, fmt.Errorf("tag_type must be an unsigned integer type, got: %s", value)
			}

		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}
	}

	if opts.Kind != KindEnum && opts.TagType != "" {
		return nil, fmt.Errorf("tag_type is only valid on enum structures")
	}
	if opts.Kind == KindEnum && opts.Align != 0 {
		return nil, fmt.Errorf("align is not valid on enum structures")
	}

	return opts, nil
}

// FindAnnotation searches comment lines for a @binstruct annotation.
// found is false when no line carries one; a malformed annotation is an
// error rather than being skipped.
func FindAnnotation(comments []string) (opts *StructOptions, found bool, err error) {
	for _, comment := range comments {
		if !strings.HasPrefix(comment, "@binstruct") {
			continue
		}
		opts, err := ParseAnnotation(comment)
		if err != nil {
			return nil, true, err
		}
		return opts, true, nil
	}
	return nil, false, nil
}

// CleanComment removes comment markers from a line
// "// @binstruct enum" → "@binstruct enum"
// "/* @binstruct */" → "@binstruct"
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "//") {
		return strings.TrimSpace(strings.TrimPrefix(line, "//"))
	}

	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		return strings.TrimSpace(line)
	}

	return line
}
