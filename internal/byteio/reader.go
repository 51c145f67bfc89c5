// Package byteio is the shared binary-reading primitive feeding the DVI
// disassembler and the TFM reader: a positional cursor over an immutable
// byte buffer with big-endian decoding for the fixed set of integer widths
// the two formats need. There is no refill loop — the whole input is
// present from construction.
package byteio

import (
	"fmt"

	"github.com/mrklie/dvious/dvierr"
	"github.com/mrklie/dvious/internal/fixed"
)

// Reader is a positional cursor over an immutable byte buffer. Position
// advances only through Read/Skip; Peek and the length queries leave it
// unchanged. Every successful read of width w advances the position by
// exactly w; a failed read or skip leaves the position unchanged.
type Reader struct {
	buf []byte
	pos int
}

// New wraps buf in a Reader positioned at the start of the buffer. The
// Reader does not copy buf; callers must not mutate it afterwards.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Position returns the current read offset.
func (r *Reader) Position() int {
	return r.pos
}

// HasMore reports whether any bytes remain to be read.
func (r *Reader) HasMore() bool {
	return r.pos < len(r.buf)
}

// slice returns the next n bytes without advancing the position.
func (r *Reader) slice(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, dvierr.OutOfBounds()
	}
	return r.buf[r.pos : r.pos+n], nil
}

// Skip advances the position by n bytes without otherwise interpreting
// them.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return dvierr.OutOfBounds()
	}
	r.pos += n
	return nil
}

// ReadBytes reads and returns a copy of the next n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.slice(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	r.pos += n
	return out, nil
}

// PeekU8 reads a byte without advancing the position.
func (r *Reader) PeekU8() (uint8, error) {
	b, err := r.slice(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU8 reads and consumes a byte.
func (r *Reader) ReadU8() (uint8, error) {
	v, err := r.PeekU8()
	if err != nil {
		return 0, err
	}
	r.pos++
	return v, nil
}

// ReadI8 reads a signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// PeekU16 reads a big-endian uint16 without advancing the position.
func (r *Reader) PeekU16() (uint16, error) {
	b, err := r.slice(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadU16 reads and consumes a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	v, err := r.PeekU16()
	if err != nil {
		return 0, err
	}
	r.pos += 2
	return v, nil
}

// ReadI16 reads a big-endian, sign-extended int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// PeekU24 reads a big-endian 24-bit unsigned integer without advancing the
// position. The value is widened into a uint32 carrier.
func (r *Reader) PeekU24() (fixed.U24, error) {
	b, err := r.slice(3)
	if err != nil {
		return 0, err
	}
	return fixed.U24(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])), nil
}

// ReadU24 reads and consumes a big-endian 24-bit unsigned integer.
func (r *Reader) ReadU24() (fixed.U24, error) {
	v, err := r.PeekU24()
	if err != nil {
		return 0, err
	}
	r.pos += 3
	return v, nil
}

// ReadI24 reads a big-endian 24-bit signed integer, sign-extending from the
// top bit of the most significant on-wire byte.
func (r *Reader) ReadI24() (fixed.I24, error) {
	u, err := r.ReadU24()
	if err != nil {
		return 0, err
	}
	v := u.Uint32()
	if v&0x800000 != 0 {
		v |= 0xFF000000
	}
	return fixed.I24(int32(v)), nil
}

// PeekU32 reads a big-endian uint32 without advancing the position.
func (r *Reader) PeekU32() (uint32, error) {
	b, err := r.slice(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadU32 reads and consumes a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	v, err := r.PeekU32()
	if err != nil {
		return 0, err
	}
	r.pos += 4
	return v, nil
}

// ReadI32 reads a big-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadUnsigned reads an unsigned integer of the given width (1, 2, 3 or 4
// bytes), zero-extended into a uint32. This backs the DVI decoder's
// width-parameterized operand dispatch for nonnegative operands (character
// codes, font indices).
func (r *Reader) ReadUnsigned(width int) (uint32, error) {
	switch width {
	case 1:
		v, err := r.ReadU8()
		return uint32(v), err
	case 2:
		v, err := r.ReadU16()
		return uint32(v), err
	case 3:
		v, err := r.ReadU24()
		return v.Uint32(), err
	case 4:
		return r.ReadU32()
	default:
		panic(fmt.Sprintf("byteio: unsupported unsigned width %d", width))
	}
}

// ReadSigned reads a signed integer of the given width (1, 2, 3 or 4 bytes),
// sign-extended into an int32. This backs the DVI decoder's
// width-parameterized operand dispatch for signed displacements.
func (r *Reader) ReadSigned(width int) (int32, error) {
	switch width {
	case 1:
		v, err := r.ReadI8()
		return int32(v), err
	case 2:
		v, err := r.ReadI16()
		return int32(v), err
	case 3:
		v, err := r.ReadI24()
		return v.Int32(), err
	case 4:
		return r.ReadI32()
	default:
		panic(fmt.Sprintf("byteio: unsupported signed width %d", width))
	}
}
