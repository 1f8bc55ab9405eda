package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// maxPrealloc bounds the allocation made up front for a length read off the
// wire. Larger fields are read incrementally so a corrupt length cannot force
// a huge allocation before truncation is detected.
const maxPrealloc = 64 << 10

// Decoder is the byte source generated DecodeBinary methods read from.
type Decoder struct {
	r       io.Reader
	n       int
	scratch [8]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// NewBytesDecoder returns a decoder reading from b.
func NewBytesDecoder(b []byte) *Decoder {
	return NewDecoder(bytes.NewReader(b))
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.n
}

func (d *Decoder) read(b []byte) error {
	start := d.n
	n, err := io.ReadFull(d.r, b)
	d.n += n
	if err != nil {
		return d.readErr(err, start, len(b), n)
	}
	return nil
}

func (d *Decoder) readErr(err error, start, need, got int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, need, start, got)
	}
	return &IOError{Op: "read", Offset: d.n, Err: err}
}

func (d *Decoder) Uint8() (uint8, error) {
	if err := d.read(d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

// Bool decodes a single byte; any non-zero value is true.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint8()
	return v != 0, err
}

func (d *Decoder) Uint16(order binary.ByteOrder) (uint16, error) {
	if err := d.read(d.scratch[:2]); err != nil {
		return 0, err
	}
	return order.Uint16(d.scratch[:2]), nil
}

func (d *Decoder) Uint32(order binary.ByteOrder) (uint32, error) {
	if err := d.read(d.scratch[:4]); err != nil {
		return 0, err
	}
	return order.Uint32(d.scratch[:4]), nil
}

func (d *Decoder) Uint64(order binary.ByteOrder) (uint64, error) {
	if err := d.read(d.scratch[:8]); err != nil {
		return 0, err
	}
	return order.Uint64(d.scratch[:8]), nil
}

func (d *Decoder) Float32(order binary.ByteOrder) (float32, error) {
	v, err := d.Uint32(order)
	return math.Float32frombits(v), err
}

func (d *Decoder) Float64(order binary.ByteOrder) (float64, error) {
	v, err := d.Uint64(order)
	return math.Float64frombits(v), err
}

// Bytes consumes exactly n bytes.
func (d *Decoder) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrLengthOverflow, n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	if l, ok := d.r.(interface{ Len() int }); ok && l.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, d.n, l.Len())
	}
	if n <= maxPrealloc {
		b := make([]byte, n)
		if err := d.read(b); err != nil {
			return nil, err
		}
		return b, nil
	}

	start := d.n
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, d.r, int64(n))
	d.n += int(got)
	if err != nil {
		return nil, d.readErr(err, start, n, int(got))
	}
	return buf.Bytes(), nil
}

func (d *Decoder) String(n int) (string, error) {
	b, err := d.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Length converts a decoded length field to an int. Values that do not fit
// an int fail with ErrLengthOverflow instead of wrapping.
func Length(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("%w: %d does not fit in int", ErrLengthOverflow, n)
	}
	return int(n), nil
}

// Remaining consumes everything left in the source. An empty remainder is
// returned as an empty, non-nil slice.
func (d *Decoder) Remaining() ([]byte, error) {
	b, err := io.ReadAll(d.r)
	d.n += len(b)
	if err != nil {
		return nil, &IOError{Op: "read", Offset: d.n, Err: err}
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// Skip discards n bytes.
func (d *Decoder) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	start := d.n
	got, err := io.CopyN(io.Discard, d.r, int64(n))
	d.n += int(got)
	if err != nil {
		return d.readErr(err, start, n, int(got))
	}
	return nil
}

// Align skips the padding that rounds the bytes consumed since start up to a
// multiple of align.
func (d *Decoder) Align(start, align int) error {
	return d.Skip(Padding(d.n-start, align))
}

// Done returns ErrTrailingBytes if the source has unread input.
func (d *Decoder) Done() error {
	if l, ok := d.r.(interface{ Len() int }); ok {
		if l.Len() > 0 {
			return fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, l.Len(), d.n)
		}
		return nil
	}
	n, err := d.r.Read(d.scratch[:1])
	if n > 0 {
		return fmt.Errorf("%w: at offset %d", ErrTrailingBytes, d.n)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return &IOError{Op: "read", Offset: d.n, Err: err}
	}
	return nil
}
