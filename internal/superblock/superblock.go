package superblock

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// Signature opens every HDF5 superblock.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

// searchOffsets are the places a superblock may live when the file carries
// a user block in front of it.
var searchOffsets = []int64{0, 512, 1024, 2048}

var (
	ErrNotHDF5            = errors.New("not an HDF5 file: signature not found")
	ErrUnsupportedVersion = errors.New("unsupported superblock version")
	ErrChecksum           = errors.New("superblock checksum mismatch")
)

// Superblock holds the fields the reader needs. Version 0/1 files locate
// the root group through a symbol table entry whose scratch pad may cache
// the root B-tree and heap addresses.
type Superblock struct {
	Version    uint8
	OffsetSize uint8
	LengthSize uint8
	Flags      uint8

	BaseAddress uint64
	EOFAddress  uint64
	RootAddress uint64

	GroupLeafK     uint16
	GroupInternalK uint16
	ChunkBTreeK    uint16

	RootCacheType uint32
	RootBTree     uint64
	RootHeap      uint64

	// Location is where the signature was found.
	Location int64
}

// Read finds the signature and decodes the superblock that follows it.
func Read(r io.ReaderAt) (*Superblock, error) {
	sig := make([]byte, len(Signature)+1)
	for _, off := range searchOffsets {
		if n, err := r.ReadAt(sig, off); n < len(sig) {
			if err == nil || errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if !bytes.Equal(sig[:8], Signature) {
			continue
		}

		var (
			sb  *Superblock
			err error
		)
		switch v := sig[8]; v {
		case 0, 1:
			sb, err = readLegacy(r, off, v)
		case 2, 3:
			sb, err = readCompact(r, off, v)
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
		}
		if err != nil {
			return nil, err
		}
		sb.Location = off
		return sb, nil
	}
	return nil, ErrNotHDF5
}

// Config returns the reader configuration implied by the superblock.
func (sb *Superblock) Config() bin.Config {
	return bin.Config{
		ByteOrder:  binary.LittleEndian,
		OffsetSize: int(sb.OffsetSize),
		LengthSize: int(sb.LengthSize),
	}
}

// readLegacy decodes versions 0 and 1:
//
//	 8 version, free-space version, root entry version, reserved,
//	   shared header version, sizeof offsets, sizeof lengths, reserved
//	16 group leaf K (2), group internal K (2), consistency flags (4)
//	24 [v1: indexed storage K (2), reserved (2)]
//	   base, free-space info, EOF, driver info addresses
//	   root group symbol table entry
func readLegacy(r io.ReaderAt, off int64, version uint8) (*Superblock, error) {
	fixed := make([]byte, 16)
	if _, err := r.ReadAt(fixed, off+8); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	sb := &Superblock{
		Version:        version,
		OffsetSize:     fixed[5],
		LengthSize:     fixed[6],
		GroupLeafK:     binary.LittleEndian.Uint16(fixed[8:]),
		GroupInternalK: binary.LittleEndian.Uint16(fixed[10:]),
	}
	if err := sb.Config().Validate(); err != nil {
		return nil, err
	}

	br := bin.NewReader(r, sb.Config()).At(off + 24)
	if version == 1 {
		k, err := br.ReadUint16()
		if err != nil {
			return nil, err
		}
		sb.ChunkBTreeK = k
		br.Skip(2)
	}

	var err error
	if sb.BaseAddress, err = br.ReadOffset(); err != nil {
		return nil, err
	}
	br.Skip(int64(sb.OffsetSize)) // free-space info
	if sb.EOFAddress, err = br.ReadOffset(); err != nil {
		return nil, err
	}
	br.Skip(int64(sb.OffsetSize)) // driver info

	// Root symbol table entry: name offset, header address, cache type,
	// reserved, 16-byte scratch pad.
	br.Skip(int64(sb.OffsetSize))
	if sb.RootAddress, err = br.ReadOffset(); err != nil {
		return nil, err
	}
	if sb.RootCacheType, err = br.ReadUint32(); err != nil {
		return nil, err
	}
	br.Skip(4)
	if sb.RootCacheType == 1 {
		if sb.RootBTree, err = br.ReadOffset(); err != nil {
			return nil, err
		}
		if sb.RootHeap, err = br.ReadOffset(); err != nil {
			return nil, err
		}
	}
	return sb, nil
}

// readCompact decodes versions 2 and 3:
//
//	 8 version, sizeof offsets, sizeof lengths, consistency flags
//	12 base, extension, EOF, root object header addresses
//	   lookup3 checksum of everything before it
func readCompact(r io.ReaderAt, off int64, version uint8) (*Superblock, error) {
	head := make([]byte, 4)
	if _, err := r.ReadAt(head, off+8); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	sb := &Superblock{
		Version:    version,
		OffsetSize: head[1],
		LengthSize: head[2],
		Flags:      head[3],
	}
	if err := sb.Config().Validate(); err != nil {
		return nil, err
	}

	size := 12 + 4*int(sb.OffsetSize)
	raw := make([]byte, size+4)
	if _, err := r.ReadAt(raw, off); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	if stored := binary.LittleEndian.Uint32(raw[size:]); stored != bin.Lookup3(raw[:size]) {
		return nil, ErrChecksum
	}

	o := int(sb.OffsetSize)
	addr := func(i int) uint64 {
		return bin.DecodeUint(raw[12+i*o:], o, binary.LittleEndian)
	}
	sb.BaseAddress = addr(0)
	sb.EOFAddress = addr(2)
	sb.RootAddress = addr(3)
	return sb, nil
}
