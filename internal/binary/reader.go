// Package binary provides the low-level decoding and encoding primitives
// shared by the HDF5 reader: fixed-width integers, file addresses and
// lengths whose widths are set by the superblock, and metadata checksums.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidSize is returned for address or length widths other than 2, 4 or 8.
var ErrInvalidSize = errors.New("invalid offset/length size: must be 2, 4, or 8")

// Config carries the widths a file was written with.
type Config struct {
	ByteOrder  binary.ByteOrder
	OffsetSize int
	LengthSize int
}

// DefaultConfig is used to probe the superblock before its widths are known.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.LittleEndian, OffsetSize: 8, LengthSize: 8}
}

// Validate checks the address and length widths.
func (c Config) Validate() error {
	for _, n := range []int{c.OffsetSize, c.LengthSize} {
		switch n {
		case 2, 4, 8:
		default:
			return fmt.Errorf("%w: got %d", ErrInvalidSize, n)
		}
	}
	return nil
}

// Reader is a cursor over an io.ReaderAt. Readers derived with At share the
// source but keep their own position, so callers can follow addresses
// without disturbing the caller's cursor.
type Reader struct {
	src io.ReaderAt
	cfg Config
	pos int64
}

// NewReader returns a reader positioned at offset 0.
func NewReader(src io.ReaderAt, cfg Config) *Reader {
	return &Reader{src: src, cfg: cfg}
}

// At returns a reader over the same source positioned at off.
func (r *Reader) At(off int64) *Reader {
	return &Reader{src: r.src, cfg: r.cfg, pos: off}
}

func (r *Reader) Pos() int64 { return r.pos }
func (r *Reader) OffsetSize() int { return r.cfg.OffsetSize }
func (r *Reader) LengthSize() int { return r.cfg.LengthSize }
func (r *Reader) ByteOrder() binary.ByteOrder { return r.cfg.ByteOrder }
func (r *Reader) Config() Config { return r.cfg }

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) { r.pos += n }

// Align moves the cursor to the next multiple of n.
func (r *Reader) Align(n int64) {
	if n > 1 && r.pos%n != 0 {
		r.pos += n - r.pos%n
	}
}

// Peek returns the next n bytes without consuming them.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := r.src.ReadAt(buf, r.pos)
	if got == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("read %d bytes at %d: %w", n, r.pos, err)
}

// ReadBytes consumes exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadUintN(2)
	return uint16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadUintN(4)
	return uint32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	return r.ReadUintN(8)
}

// ReadUintN reads an n-byte unsigned integer in the configured byte order.
func (r *Reader) ReadUintN(n int) (uint64, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return DecodeUint(b, n, r.cfg.ByteOrder), nil
}

// ReadOffset reads a file address.
func (r *Reader) ReadOffset() (uint64, error) { return r.ReadUintN(r.cfg.OffsetSize) }

// ReadLength reads a length field.
func (r *Reader) ReadLength() (uint64, error) { return r.ReadUintN(r.cfg.LengthSize) }

// IsUndefined reports whether addr is the all-ones "undefined address"
// for this file's offset width.
func (r *Reader) IsUndefined(addr uint64) bool {
	return addr == UndefinedFor(r.cfg.OffsetSize)
}

// UndefinedFor returns the undefined address for an n-byte offset.
func UndefinedFor(n int) uint64 {
	if n >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(uint(n)*8) - 1
}

// DecodeUint decodes an n-byte unsigned integer. Widths outside 1/2/4/8
// are decoded little-endian byte by byte.
func DecodeUint(b []byte, n int, order binary.ByteOrder) uint64 {
	switch n {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	case 8:
		return order.Uint64(b)
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
