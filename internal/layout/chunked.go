package layout

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/btree"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// Chunked data is split into equal chunks located through an index.
type Chunked struct {
	r      *bin.Reader
	layout *message.DataLayout
	ds     Dataset
}

func (c *Chunked) Class() message.LayoutClass { return message.LayoutChunked }

func (c *Chunked) Read() ([]byte, error) {
	out := make([]byte, c.ds.Bytes())
	if c.r.IsUndefined(c.layout.Address) {
		return out, nil
	}
	chunks, err := c.locate()
	if err != nil {
		return nil, err
	}
	full := c.layout.ChunkBytes()
	for _, ch := range chunks {
		raw, err := c.r.At(int64(ch.Address)).ReadBytes(int(ch.Size))
		if err != nil {
			return nil, fmt.Errorf("chunk %v at %d: %w", ch.Offset, ch.Address, err)
		}
		data, err := c.ds.Filters.Decode(raw, ch.FilterMask)
		if err != nil {
			return nil, fmt.Errorf("chunk %v: %w", ch.Offset, err)
		}
		if uint64(len(data)) < full {
			return nil, fmt.Errorf("chunk %v decoded to %d bytes, want %d", ch.Offset, len(data), full)
		}
		place(out, data, c.ds.Dims, c.layout.ChunkDims, ch.Offset, c.ds.ElemSize)
	}
	return out, nil
}

// locate lists the stored chunks with their element offsets.
func (c *Chunked) locate() ([]btree.Chunk, error) {
	l := c.layout
	switch l.Index {
	case message.IndexBTreeV1:
		return btree.Chunks(c.r, l.Address, len(c.ds.Dims))
	case message.IndexSingleChunk:
		ch := btree.Chunk{Offset: make([]uint64, len(c.ds.Dims)), Address: l.Address, Size: uint32(l.ChunkBytes())}
		if l.Flags&message.ChunkFlagSingleFiltered != 0 {
			ch.Size = uint32(l.FilteredSize)
			ch.FilterMask = l.FilterMask
		}
		return []btree.Chunk{ch}, nil
	case message.IndexImplicit:
		size := l.ChunkBytes()
		grid := chunkGrid(c.ds.Dims, l.ChunkDims)
		out := make([]btree.Chunk, 0, gridCount(grid))
		for i := range gridCount(grid) {
			out = append(out, btree.Chunk{
				Offset:  chunkOffset(i, grid, l.ChunkDims),
				Size:    uint32(size),
				Address: l.Address + uint64(i)*size,
			})
		}
		return out, nil
	case message.IndexFixedArray:
		return c.fixedArray()
	default:
		return nil, fmt.Errorf("%w: %v chunk index", ErrUnsupported, l.Index)
	}
}

// chunkGrid is the number of chunks along each dimension.
func chunkGrid(dims, chunk []uint64) []uint64 {
	g := make([]uint64, len(dims))
	for i := range dims {
		g[i] = (dims[i] + chunk[i] - 1) / chunk[i]
	}
	return g
}

func gridCount(grid []uint64) uint64 {
	n := uint64(1)
	for _, v := range grid {
		n *= v
	}
	return n
}

// chunkOffset converts a row-major chunk index into the element offset of
// the chunk's first element.
func chunkOffset(index uint64, grid, chunk []uint64) []uint64 {
	off := make([]uint64, len(grid))
	for d := len(grid) - 1; d >= 0; d-- {
		off[d] = (index % grid[d]) * chunk[d]
		index /= grid[d]
	}
	return off
}

// place copies a decoded chunk into the dataset buffer, clipping chunks
// that overhang the dataset edge.
func place(out, chunk []byte, dims, chunkDims, offset []uint64, elemSize int) {
	rows(dims, chunkDims, offset, elemSize, func(src, dst, n uint64) {
		copy(out[dst:dst+n], chunk[src:src+n])
	})
}

// rows calls fn for every run of elements the chunk at offset shares with
// the dataset. src and dst are byte offsets into the chunk and the dataset;
// n is the run length in bytes. Elements along the last dimension are
// contiguous in both.
func rows(dims, chunkDims, offset []uint64, elemSize int, fn func(src, dst, n uint64)) {
	rank := len(dims)
	if rank == 0 {
		fn(0, 0, uint64(elemSize))
		return
	}
	last := rank - 1
	if offset[last] >= dims[last] {
		return
	}
	n := min(chunkDims[last], dims[last]-offset[last]) * uint64(elemSize)

	pos := make([]uint64, rank)
	for {
		var src, dst uint64
		inside := true
		for d := 0; d < rank; d++ {
			g := offset[d] + pos[d]
			if g >= dims[d] {
				inside = false
				break
			}
			src = src*chunkDims[d] + pos[d]
			dst = dst*dims[d] + g
		}
		if inside {
			fn(src*uint64(elemSize), dst*uint64(elemSize), n)
		}

		d := last - 1
		for ; d >= 0; d-- {
			pos[d]++
			if pos[d] < chunkDims[d] {
				break
			}
			pos[d] = 0
		}
		if d < 0 {
			return
		}
	}
}
