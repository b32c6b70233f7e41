package btree

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// Chunk locates one stored chunk of a dataset.
type Chunk struct {
	// Offset is the element coordinate of the chunk's first element.
	Offset     []uint64
	Size       uint32
	FilterMask uint32
	Address    uint64
}

// Chunks lists every chunk under the chunk B-tree rooted at addr. rank is
// the dataset rank; keys carry one extra trailing coordinate for the
// element size, which is dropped.
//
// A node with N children has N+1 keys, each
//
//	chunk size (4), filter mask (4), (rank+1) offsets (8 each)
func Chunks(r *bin.Reader, addr uint64, rank int) ([]Chunk, error) {
	nr := r.At(int64(addr))
	n, err := readNode(nr, nodeChunk)
	if err != nil {
		return nil, fmt.Errorf("chunk B-tree at %d: %w", addr, err)
	}

	var out []Chunk
	for i := 0; i < n.entries; i++ {
		key, err := readChunkKey(nr, rank)
		if err != nil {
			return nil, err
		}
		child, err := nr.ReadOffset()
		if err != nil {
			return nil, err
		}
		if n.level > 0 {
			sub, err := Chunks(r, child, rank)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		if nr.IsUndefined(child) {
			continue
		}
		key.Address = child
		out = append(out, key)
	}
	return out, nil
}

func readChunkKey(r *bin.Reader, rank int) (Chunk, error) {
	var c Chunk
	var err error
	if c.Size, err = r.ReadUint32(); err != nil {
		return c, err
	}
	if c.FilterMask, err = r.ReadUint32(); err != nil {
		return c, err
	}
	c.Offset = make([]uint64, rank)
	for i := range c.Offset {
		if c.Offset[i], err = r.ReadUint64(); err != nil {
			return c, err
		}
	}
	r.Skip(8)
	return c, nil
}

// EncodeLeaf appends a single level-0 chunk node holding chunks, which
// must be sorted by offset. end is the key bounding the last chunk: the
// dataset extent rounded up to whole chunks.
func EncodeLeaf(b *bin.Buffer, chunks []Chunk, end []uint64) {
	b.Write([]byte("TREE"))
	b.Uint8(nodeChunk)
	b.Uint8(0)
	b.Uint16(uint16(len(chunks)))
	b.Undefined()
	b.Undefined()
	key := func(size, mask uint32, off []uint64) {
		b.Uint32(size)
		b.Uint32(mask)
		for _, o := range off {
			b.Uint64(o)
		}
		b.Uint64(0)
	}
	for _, c := range chunks {
		key(c.Size, c.FilterMask, c.Offset)
		b.Offset(c.Address)
	}
	key(0, 0, end)
}
