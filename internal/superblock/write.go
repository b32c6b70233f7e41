package superblock

import (
	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// EncodedSize is the size of a version 3 superblock for the given offset width.
func EncodedSize(offsetSize int) int {
	return 12 + 4*offsetSize + 4
}

// Encode appends a version 3 superblock with no extension.
func (sb *Superblock) Encode(b *bin.Buffer) {
	start := b.Len()
	b.Write(Signature)
	b.Uint8(3)
	b.Uint8(sb.OffsetSize)
	b.Uint8(sb.LengthSize)
	b.Uint8(sb.Flags)
	b.Offset(sb.BaseAddress)
	b.Undefined()
	b.Offset(sb.EOFAddress)
	b.Offset(sb.RootAddress)
	b.Uint32(bin.Lookup3(b.Bytes()[start:]))
}
