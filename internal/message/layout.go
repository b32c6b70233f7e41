package message

import "fmt"

// LayoutClass says where a dataset's raw data lives.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
	LayoutVirtual    LayoutClass = 3
)

func (c LayoutClass) String() string {
	switch c {
	case LayoutCompact:
		return "compact"
	case LayoutContiguous:
		return "contiguous"
	case LayoutChunked:
		return "chunked"
	case LayoutVirtual:
		return "virtual"
	}
	return fmt.Sprintf("layout(%d)", uint8(c))
}

// ChunkIndex identifies how chunk addresses are indexed. Layout versions
// 1 through 3 always use a version 1 B-tree; version 4 names the index
// explicitly using the codes 1..5.
type ChunkIndex uint8

const (
	IndexBTreeV1         ChunkIndex = 0
	IndexSingleChunk     ChunkIndex = 1
	IndexImplicit        ChunkIndex = 2
	IndexFixedArray      ChunkIndex = 3
	IndexExtensibleArray ChunkIndex = 4
	IndexBTreeV2         ChunkIndex = 5
)

func (i ChunkIndex) String() string {
	return [...]string{"btree-v1", "single", "implicit", "fixed-array", "extensible-array", "btree-v2"}[min(int(i), 5)]
}

// Layout v4 chunked flags.
const (
	ChunkFlagNoPartialFilter = 0x01
	ChunkFlagSingleFiltered  = 0x02
)

// DataLayout is message 0x08.
type DataLayout struct {
	Version uint8
	Class   LayoutClass

	// Compact
	Data []byte

	// Contiguous data address, or chunk index address. Size is the
	// contiguous byte count; zero when the version does not record it.
	Address uint64
	Size    uint64

	// Chunked. ChunkDims excludes the trailing element-size dimension,
	// which is reported separately.
	ChunkDims   []uint64
	ElementSize uint32
	Index       ChunkIndex
	Flags       uint8

	// Index parameters (v4).
	FilteredSize uint64
	FilterMask   uint32
	PageBits     uint8
}

func (*DataLayout) Type() Type { return TypeDataLayout }

// ChunkBytes is the uncompressed size of one chunk.
func (m *DataLayout) ChunkBytes() uint64 {
	n := uint64(m.ElementSize)
	for _, c := range m.ChunkDims {
		n *= c
	}
	return n
}

func parseLayout(d *decoder) *DataLayout {
	m := &DataLayout{Version: d.u8()}
	switch m.Version {
	case 1, 2:
		parseLayoutV1(d, m)
	case 3, 4:
		m.Class = LayoutClass(d.u8())
		switch m.Class {
		case LayoutCompact:
			n := int(d.u16())
			m.Data = d.take(n)
		case LayoutContiguous:
			m.Address = d.offset()
			m.Size = d.length()
		case LayoutChunked:
			if m.Version == 3 {
				parseChunkedV3(d, m)
			} else {
				parseChunkedV4(d, m)
			}
		default:
			d.fail(fmt.Errorf("%s layout is not supported", m.Class))
		}
	default:
		d.fail(errUnsupportedVersion("data layout", m.Version))
	}
	return m
}

// parseLayoutV1 handles versions 1 and 2: dimensionality, class, five
// reserved bytes, an address for non-compact storage, then 4-byte
// dimension sizes.
func parseLayoutV1(d *decoder, m *DataLayout) {
	ndims := int(d.u8())
	m.Class = LayoutClass(d.u8())
	d.skip(5)
	if m.Class != LayoutCompact {
		m.Address = d.offset()
	}
	dims := make([]uint64, ndims)
	for i := range dims {
		dims[i] = uint64(d.u32())
	}
	switch m.Class {
	case LayoutChunked:
		m.setChunkDims(d, dims)
		m.Index = IndexBTreeV1
	case LayoutCompact:
		n := int(d.u32())
		m.Data = d.take(n)
	}
}

func parseChunkedV3(d *decoder, m *DataLayout) {
	ndims := int(d.u8())
	m.Address = d.offset()
	dims := make([]uint64, ndims)
	for i := range dims {
		dims[i] = uint64(d.u32())
	}
	m.setChunkDims(d, dims)
	m.Index = IndexBTreeV1
}

func parseChunkedV4(d *decoder, m *DataLayout) {
	m.Flags = d.u8()
	ndims := int(d.u8())
	width := int(d.u8())
	if width < 1 || width > 8 {
		d.fail(fmt.Errorf("invalid chunk dimension width %d", width))
		return
	}
	dims := make([]uint64, ndims)
	for i := range dims {
		dims[i] = d.uintN(width)
	}
	m.setChunkDims(d, dims)

	m.Index = ChunkIndex(d.u8())
	switch m.Index {
	case IndexSingleChunk:
		if m.Flags&ChunkFlagSingleFiltered != 0 {
			m.FilteredSize = d.length()
			m.FilterMask = d.u32()
		}
	case IndexImplicit:
	case IndexFixedArray:
		m.PageBits = d.u8()
	case IndexExtensibleArray:
		d.skip(5)
	case IndexBTreeV2:
		d.skip(6)
	default:
		d.fail(fmt.Errorf("unknown chunk index type %d", m.Index))
		return
	}
	m.Address = d.offset()
}

// setChunkDims splits off the trailing element-size dimension.
func (m *DataLayout) setChunkDims(d *decoder, dims []uint64) {
	if len(dims) < 2 {
		d.fail(fmt.Errorf("chunked layout with %d dimensions", len(dims)))
		return
	}
	m.ChunkDims = dims[:len(dims)-1]
	m.ElementSize = uint32(dims[len(dims)-1])
}
