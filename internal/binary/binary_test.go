package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestLookup3KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0xdeadbeef},
		{"four score", []byte("Four score and seven years ago"), 0x17770551},
		{"thirteen bytes", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 0xbc9d6816},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup3(tt.data); got != tt.want {
				t.Errorf("Lookup3() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestFletcher32(t *testing.T) {
	if got := Fletcher32([]byte("abcdef")); got != 0x50562a2d {
		t.Errorf("even length: got %#08x", got)
	}
	if got := Fletcher32([]byte("abcde")); got != 0x4ff029c7 {
		t.Errorf("odd length: got %#08x", got)
	}

	// Long enough to cross several 360-word folds.
	long := make([]byte, 0, 1024)
	for i := 0; i < 4; i++ {
		for b := 0; b < 256; b++ {
			long = append(long, byte(b))
		}
	}
	if got := Fletcher32(long); got != 0x151600ff {
		t.Errorf("long input: got %#08x", got)
	}
}

func TestReaderWidths(t *testing.T) {
	cfg := Config{ByteOrder: binary.LittleEndian, OffsetSize: 4, LengthSize: 2}
	buf := NewBuffer(cfg)
	buf.Offset(0x11223344)
	buf.Length(0x5566)
	buf.Undefined()
	buf.UintN(0x0a0b0c, 3)

	r := NewReader(bytes.NewReader(buf.Bytes()), cfg)
	off, err := r.ReadOffset()
	if err != nil || off != 0x11223344 {
		t.Fatalf("ReadOffset = %#x, %v", off, err)
	}
	n, err := r.ReadLength()
	if err != nil || n != 0x5566 {
		t.Fatalf("ReadLength = %#x, %v", n, err)
	}
	undef, err := r.ReadOffset()
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsUndefined(undef) {
		t.Errorf("expected %#x to be undefined for 4-byte offsets", undef)
	}
	odd, err := r.ReadUintN(3)
	if err != nil || odd != 0x0a0b0c {
		t.Errorf("ReadUintN(3) = %#x, %v", odd, err)
	}
	if r.Pos() != int64(buf.Len()) {
		t.Errorf("Pos() = %d, want %d", r.Pos(), buf.Len())
	}
}

func TestReaderAtIsIndependent(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4}), DefaultConfig())
	sub := r.At(2)
	if _, err := sub.ReadUint8(); err != nil {
		t.Fatal(err)
	}
	if r.Pos() != 0 || sub.Pos() != 3 {
		t.Errorf("positions = %d/%d, want 0/3", r.Pos(), sub.Pos())
	}
}

func TestReaderAlign(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 32)), DefaultConfig())
	r.Skip(3)
	r.Align(8)
	if r.Pos() != 8 {
		t.Errorf("Align(8) from 3 = %d", r.Pos())
	}
	r.Align(8)
	if r.Pos() != 8 {
		t.Errorf("Align on boundary moved to %d", r.Pos())
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}), DefaultConfig())
	_, err := r.ReadUint32()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := Config{ByteOrder: binary.LittleEndian, OffsetSize: 3, LengthSize: 8}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}
