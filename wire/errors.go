package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the source ends before a field is complete.
	ErrTruncated = errors.New("truncated input")

	// ErrUnknownVariant is matched by *UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrLengthOverflow is returned when a length does not fit its length field.
	ErrLengthOverflow = errors.New("length overflows length field")

	// ErrLengthMismatch is returned when a decoded byte length is not a
	// multiple of the element size of the field it describes.
	ErrLengthMismatch = errors.New("length is not a multiple of element size")

	// ErrSizeMismatch is returned when a fixed-size blob has the wrong length.
	ErrSizeMismatch = errors.New("value does not match declared size")

	ErrNoVariant        = errors.New("no enum variant set")
	ErrMultipleVariants = errors.New("more than one enum variant set")

	// ErrTrailingBytes is returned by UnmarshalBinary when input remains after
	// the structure is complete.
	ErrTrailingBytes = errors.New("trailing bytes after structure")

	// ErrSinkFull is returned by a FixedBuffer that has run out of capacity.
	ErrSinkFull = errors.New("sink capacity exhausted")
)

// UnknownVariantError reports a discriminant value with no matching variant.
type UnknownVariantError struct {
	Enum string
	Tag  uint64
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant: %s has no variant with tag %d", e.Enum, e.Tag)
}

func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// IOError wraps a failure of the underlying reader or writer.
type IOError struct {
	Op     string // "read" or "write"
	Offset int
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FieldError attaches the structure and field being processed to a runtime
// error. Nested structures produce a chain of FieldErrors.
type FieldError struct {
	Struct string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return e.Struct + "." + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErr wraps err with the structure and field name.
func FieldErr(structName, field string, err error) error {
	return &FieldError{Struct: structName, Field: field, Err: err}
}
