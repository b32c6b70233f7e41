package superblock

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

func TestRoundTripV3(t *testing.T) {
	cfg := bin.DefaultConfig()
	b := bin.NewBuffer(cfg)
	want := &Superblock{OffsetSize: 8, LengthSize: 8, EOFAddress: 4096, RootAddress: 48}
	want.Encode(b)
	if b.Len() != EncodedSize(8) {
		t.Fatalf("encoded %d bytes, want %d", b.Len(), EncodedSize(8))
	}

	got, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Version != 3 || got.RootAddress != 48 || got.EOFAddress != 4096 {
		t.Errorf("unexpected superblock: %+v", got)
	}
}

func TestChecksumMismatch(t *testing.T) {
	b := bin.NewBuffer(bin.DefaultConfig())
	(&Superblock{OffsetSize: 8, LengthSize: 8, RootAddress: 48}).Encode(b)
	raw := b.Bytes()
	raw[20] ^= 0xff

	if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected ErrChecksum, got %v", err)
	}
}

// legacyV0 builds a version 0 superblock whose root entry caches the
// root B-tree and heap addresses.
func legacyV0() []byte {
	b := bin.NewBuffer(bin.DefaultConfig())
	b.Write(Signature)
	b.Write([]byte{0, 0, 0, 0, 0, 8, 8, 0})
	b.Uint16(4)  // leaf K
	b.Uint16(16) // internal K
	b.Uint32(0)
	b.Offset(0)    // base
	b.Undefined()  // free space
	b.Offset(2048) // EOF
	b.Undefined()  // driver info
	b.Offset(0)    // name offset
	b.Offset(96)   // root header
	b.Uint32(1)    // cache type
	b.Uint32(0)
	b.Offset(136) // B-tree
	b.Offset(680) // heap
	return b.Bytes()
}

func TestReadV0(t *testing.T) {
	sb, err := Read(bytes.NewReader(legacyV0()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sb.Version != 0 || sb.OffsetSize != 8 || sb.LengthSize != 8 {
		t.Errorf("header fields: %+v", sb)
	}
	if sb.GroupLeafK != 4 || sb.GroupInternalK != 16 {
		t.Errorf("K values = %d/%d", sb.GroupLeafK, sb.GroupInternalK)
	}
	if sb.RootAddress != 96 || sb.RootBTree != 136 || sb.RootHeap != 680 {
		t.Errorf("root entry = %d/%d/%d", sb.RootAddress, sb.RootBTree, sb.RootHeap)
	}
	if sb.Config().ByteOrder != binary.LittleEndian {
		t.Error("expected little-endian config")
	}
}

func TestReadAfterUserBlock(t *testing.T) {
	raw := append(make([]byte, 512), legacyV0()...)
	sb, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sb.Location != 512 {
		t.Errorf("Location = %d, want 512", sb.Location)
	}
}

func TestNotHDF5(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("TIME 01/01/2020\n1.0 2.0\n")))
	if !errors.Is(err, ErrNotHDF5) {
		t.Errorf("expected ErrNotHDF5, got %v", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	raw := append(append([]byte{}, Signature...), 9)
	raw = append(raw, make([]byte, 64)...)
	if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}
