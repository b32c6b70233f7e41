package message

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// Encoder is implemented by messages the writer can emit.
type Encoder interface {
	Message
	Encode(b *bin.Buffer)
}

// EncodedSize reports the body size of m under cfg.
func EncodedSize(m Encoder, cfg bin.Config) int {
	b := bin.NewBuffer(cfg)
	m.Encode(b)
	return b.Len()
}

// NewSimpleDataspace returns a fixed-size simple dataspace.
func NewSimpleDataspace(dims ...uint64) *Dataspace {
	return &Dataspace{Version: 2, Kind: SpaceSimple, Dims: dims}
}

// Encode writes a version 2 dataspace.
func (m *Dataspace) Encode(b *bin.Buffer) {
	b.Uint8(2)
	b.Uint8(uint8(len(m.Dims)))
	var flags uint8
	if len(m.MaxDims) > 0 {
		flags |= 0x01
	}
	b.Uint8(flags)
	b.Uint8(uint8(m.Kind))
	for _, d := range m.Dims {
		b.Length(d)
	}
	for _, d := range m.MaxDims {
		b.Length(d)
	}
}

// NewFloat returns an IEEE float type of 4 or 8 bytes.
func NewFloat(size uint32, bigEndian bool) *Datatype {
	m := &Datatype{Version: 1, Class: ClassFloat, Size: size, BigEndian: bigEndian, Signed: true}
	switch size {
	case 4:
		m.BitPrecision, m.ExpLocation, m.ExpSize, m.MantSize, m.ExpBias = 32, 23, 8, 23, 127
	case 8:
		m.BitPrecision, m.ExpLocation, m.ExpSize, m.MantSize, m.ExpBias = 64, 52, 11, 52, 1023
	default:
		panic(fmt.Sprintf("message: no IEEE float of %d bytes", size))
	}
	// Mantissa normalisation "implied" (bit 5) and the sign bit position.
	m.Bits = 0x20 | uint32(size*8-1)<<8
	if bigEndian {
		m.Bits |= 0x01
	}
	return m
}

// NewInteger returns a two's complement integer type.
func NewInteger(size uint32, signed, bigEndian bool) *Datatype {
	m := &Datatype{Version: 1, Class: ClassFixed, Size: size, Signed: signed, BigEndian: bigEndian}
	m.BitPrecision = uint16(size * 8)
	if bigEndian {
		m.Bits |= 0x01
	}
	if signed {
		m.Bits |= 0x08
	}
	return m
}

// Encode writes a numeric datatype.
func (m *Datatype) Encode(b *bin.Buffer) {
	b.Uint8(m.Version<<4 | uint8(m.Class))
	b.Uint8(uint8(m.Bits))
	b.Uint8(uint8(m.Bits >> 8))
	b.Uint8(uint8(m.Bits >> 16))
	b.Uint32(m.Size)
	switch m.Class {
	case ClassFixed:
		b.Uint16(m.BitOffset)
		b.Uint16(m.BitPrecision)
	case ClassFloat:
		b.Uint16(m.BitOffset)
		b.Uint16(m.BitPrecision)
		b.Uint8(m.ExpLocation)
		b.Uint8(m.ExpSize)
		b.Uint8(m.MantLocation)
		b.Uint8(m.MantSize)
		b.Uint32(m.ExpBias)
	default:
		b.Write(m.Properties)
	}
}

// Encode writes a version 3 layout. Chunked layouts always use a v1
// B-tree index at Address.
func (m *DataLayout) Encode(b *bin.Buffer) {
	b.Uint8(3)
	b.Uint8(uint8(m.Class))
	switch m.Class {
	case LayoutCompact:
		b.Uint16(uint16(len(m.Data)))
		b.Write(m.Data)
	case LayoutContiguous:
		b.Offset(m.Address)
		b.Length(m.Size)
	case LayoutChunked:
		b.Uint8(uint8(len(m.ChunkDims) + 1))
		b.Offset(m.Address)
		for _, c := range m.ChunkDims {
			b.Uint32(uint32(c))
		}
		b.Uint32(m.ElementSize)
	}
}

// Encode writes a version 2 pipeline.
func (m *FilterPipeline) Encode(b *bin.Buffer) {
	b.Uint8(2)
	b.Uint8(uint8(len(m.Filters)))
	for _, f := range m.Filters {
		b.Uint16(f.ID)
		if f.ID >= 256 {
			b.Uint16(uint16(len(f.Name) + 1))
		}
		b.Uint16(f.Flags)
		b.Uint16(uint16(len(f.ClientData)))
		if f.ID >= 256 {
			b.Write([]byte(f.Name))
			b.Uint8(0)
		}
		for _, cd := range f.ClientData {
			b.Uint32(cd)
		}
	}
}

// Encode writes a hard or soft link with a one-byte name length.
func (m *Link) Encode(b *bin.Buffer) {
	b.Uint8(1)
	if m.Kind == LinkSoft {
		b.Uint8(0x08)
		b.Uint8(uint8(LinkSoft))
	} else {
		b.Uint8(0)
	}
	b.Uint8(uint8(len(m.Name)))
	b.Write([]byte(m.Name))
	if m.Kind == LinkSoft {
		b.Uint16(uint16(len(m.Target)))
		b.Write([]byte(m.Target))
		return
	}
	b.Offset(m.Address)
}

// NewLinkInfo returns link info for a compact group with no dense storage.
func NewLinkInfo() *LinkInfo {
	return &LinkInfo{FractalHeap: ^uint64(0), NameIndex: ^uint64(0)}
}

// Encode writes link info without creation order tracking.
func (m *LinkInfo) Encode(b *bin.Buffer) {
	b.Uint8(0)
	b.Uint8(0)
	b.Offset(m.FractalHeap)
	b.Offset(m.NameIndex)
}

// Encode writes an empty group info message.
func (m *GroupInfo) Encode(b *bin.Buffer) {
	b.Uint8(0)
	b.Uint8(0)
}
