package layout

import (
	"fmt"

	"github.com/zarladar/interactive-hydrograph/internal/btree"
	"github.com/zarladar/interactive-hydrograph/internal/filter"
)

// Piece is one encoded chunk ready to be written.
type Piece struct {
	Offset []uint64
	Data   []byte
}

// Split cuts a row-major dataset buffer into chunks in row-major chunk
// order, zero-filling edge chunks to full size, and runs each through
// pipe.
func Split(data []byte, ds Dataset, chunkDims []uint64, pipe *filter.Pipeline) ([]Piece, error) {
	if uint64(len(data)) != ds.Bytes() {
		return nil, fmt.Errorf("buffer of %d bytes for a %d byte dataset", len(data), ds.Bytes())
	}
	full := uint64(ds.ElemSize)
	for _, c := range chunkDims {
		full *= c
	}
	grid := chunkGrid(ds.Dims, chunkDims)
	out := make([]Piece, 0, gridCount(grid))
	for i := range gridCount(grid) {
		off := chunkOffset(i, grid, chunkDims)
		chunk := make([]byte, full)
		rows(ds.Dims, chunkDims, off, ds.ElemSize, func(src, dst, n uint64) {
			copy(chunk[src:src+n], data[dst:dst+n])
		})
		enc, err := pipe.Encode(chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %v: %w", off, err)
		}
		out = append(out, Piece{Offset: off, Data: enc})
	}
	return out, nil
}

// Index describes pieces written at the given addresses, ready for
// btree.EncodeLeaf.
func Index(pieces []Piece, addrs []uint64) []btree.Chunk {
	out := make([]btree.Chunk, len(pieces))
	for i, p := range pieces {
		out[i] = btree.Chunk{Offset: p.Offset, Size: uint32(len(p.Data)), Address: addrs[i]}
	}
	return out
}

// IndexEnd is the key that bounds the last chunk of a dataset.
func IndexEnd(dims, chunkDims []uint64) []uint64 {
	grid := chunkGrid(dims, chunkDims)
	end := make([]uint64, len(dims))
	for i := range dims {
		end[i] = grid[i] * chunkDims[i]
	}
	return end
}
