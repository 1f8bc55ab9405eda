package parser

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a configuration error.
type ErrorKind string

const (
	KindInvalidAnnotation   ErrorKind = "invalid_annotation"
	KindUnsupportedType     ErrorKind = "unsupported_type"
	KindConflictingOptions  ErrorKind = "conflicting_attributes"
	KindUnknownReference    ErrorKind = "unknown_reference"
	KindForwardReference    ErrorKind = "forward_reference"
	KindInvalidLengthSource ErrorKind = "invalid_length_source"
	KindDuplicateTag        ErrorKind = "duplicate_tag"
	KindTagOverflow         ErrorKind = "tag_overflow"
	KindMisplacedTerminal   ErrorKind = "misplaced_terminal"
	KindMissingLength       ErrorKind = "missing_length"
	KindMissingDiscriminant ErrorKind = "missing_discriminant"
	KindInvalidPredicate    ErrorKind = "invalid_predicate"
	KindInvalidDiscriminant ErrorKind = "invalid_discriminant"
)

// ConfigError is a generation-time error: the annotations of a structure
// are inconsistent and no code is produced for it.
type ConfigError struct {
	Pos    string // file:line, when known
	Struct string
	Field  string // empty for structure-level errors
	Kind   ErrorKind
	Detail string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Struct)
	if e.Field != "" {
		b.WriteByte('.')
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// ConfigErrorf builds a ConfigError with a formatted detail.
func ConfigErrorf(kind ErrorKind, pos, structName, field, format string, args ...any) *ConfigError {
	return &ConfigError{
		Pos:    pos,
		Struct: structName,
		Field:  field,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
