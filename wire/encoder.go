package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encoder is the byte sink generated EncodeBinary methods write to. Writes go
// straight to the underlying writer in call order; the encoder buffers at most
// one scalar.
type Encoder struct {
	w       io.Writer
	n       int
	scratch [8]byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.n
}

func (e *Encoder) write(b []byte) error {
	n, err := e.w.Write(b)
	e.n += n
	if err != nil {
		return &IOError{Op: "write", Offset: e.n, Err: err}
	}
	if n < len(b) {
		return &IOError{Op: "write", Offset: e.n, Err: io.ErrShortWrite}
	}
	return nil
}

func (e *Encoder) Uint8(v uint8) error {
	e.scratch[0] = v
	return e.write(e.scratch[:1])
}

func (e *Encoder) Bool(v bool) error {
	if v {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

func (e *Encoder) Uint16(order binary.ByteOrder, v uint16) error {
	order.PutUint16(e.scratch[:2], v)
	return e.write(e.scratch[:2])
}

func (e *Encoder) Uint32(order binary.ByteOrder, v uint32) error {
	order.PutUint32(e.scratch[:4], v)
	return e.write(e.scratch[:4])
}

func (e *Encoder) Uint64(order binary.ByteOrder, v uint64) error {
	order.PutUint64(e.scratch[:8], v)
	return e.write(e.scratch[:8])
}

func (e *Encoder) Float32(order binary.ByteOrder, v float32) error {
	return e.Uint32(order, math.Float32bits(v))
}

func (e *Encoder) Float64(order binary.ByteOrder, v float64) error {
	return e.Uint64(order, math.Float64bits(v))
}

// Bytes writes b as is.
func (e *Encoder) Bytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return e.write(b)
}

func (e *Encoder) String(s string) error {
	if len(s) == 0 {
		return nil
	}
	if sw, ok := e.w.(io.StringWriter); ok {
		n, err := sw.WriteString(s)
		e.n += n
		if err != nil {
			return &IOError{Op: "write", Offset: e.n, Err: err}
		}
		if n < len(s) {
			return &IOError{Op: "write", Offset: e.n, Err: io.ErrShortWrite}
		}
		return nil
	}
	return e.write([]byte(s))
}

// Zeros writes n zero bytes.
func (e *Encoder) Zeros(n int) error {
	clear(e.scratch[:])
	for n > 0 {
		chunk := min(n, len(e.scratch))
		if err := e.write(e.scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Align pads with zeros until the bytes written since start are a multiple
// of align.
func (e *Encoder) Align(start, align int) error {
	return e.Zeros(Padding(e.n-start, align))
}

// Padding returns the bytes needed to round size up to a multiple of align.
func Padding(size, align int) int {
	if align <= 1 {
		return 0
	}
	if r := size % align; r != 0 {
		return align - r
	}
	return 0
}

// CheckLength reports ErrLengthOverflow when n does not fit an unsigned
// length field of the given bit width.
func CheckLength(n int, bits int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrLengthOverflow, n)
	}
	if bits < 64 && uint64(n) > (uint64(1)<<bits)-1 {
		return fmt.Errorf("%w: %d does not fit in %d bits", ErrLengthOverflow, n, bits)
	}
	return nil
}

// FixedBuffer is an io.Writer over a caller-provided slice. Writes that do
// not fit are truncated and fail with ErrSinkFull.
type FixedBuffer struct {
	buf []byte
	n   int
}

func NewFixedBuffer(buf []byte) *FixedBuffer {
	return &FixedBuffer{buf: buf}
}

func (f *FixedBuffer) Write(p []byte) (int, error) {
	n := copy(f.buf[f.n:], p)
	f.n += n
	if n < len(p) {
		return n, ErrSinkFull
	}
	return n, nil
}

// Bytes returns the written prefix of the buffer.
func (f *FixedBuffer) Bytes() []byte {
	return f.buf[:f.n]
}

// Available returns the remaining capacity.
func (f *FixedBuffer) Available() int {
	return len(f.buf) - f.n
}
