package layout

import (
	"bytes"
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/btree"
)

// Fixed array client IDs.
const (
	faPlainChunks    = 0
	faFilteredChunks = 1
)

// fixedArray reads a fixed array chunk index. The header is
//
//	"FAHD", version (1), client ID (1), entry size (1), page bits (1),
//	entry count (L), data block address (O), checksum (4)
//
// and the data block is
//
//	"FADB", version (1), client ID (1), header address (O), entries, checksum (4)
//
// with one entry per chunk in row-major chunk order: an address, plus a
// chunk size and filter mask for filtered chunks. Paged data blocks are
// not supported.
func (c *Chunked) fixedArray() ([]btree.Chunk, error) {
	hr := c.r.At(int64(c.layout.Address))
	raw, err := hr.ReadBytes(4 + 4 + c.r.LengthSize() + c.r.OffsetSize())
	if err != nil {
		return nil, fmt.Errorf("fixed array header: %w", err)
	}
	if err := checksum(hr, raw); err != nil {
		return nil, fmt.Errorf("fixed array header: %w", err)
	}
	h := bin.NewReader(bytes.NewReader(raw), c.r.Config())
	if sig, _ := h.ReadBytes(4); string(sig) != "FAHD" {
		return nil, fmt.Errorf("fixed array header: bad signature %q", sig)
	}
	h.Skip(1)
	client, _ := h.ReadUint8()
	entrySize, _ := h.ReadUint8()
	pageBits, _ := h.ReadUint8()
	count, _ := h.ReadLength()
	blockAddr, err := h.ReadOffset()
	if err != nil {
		return nil, err
	}
	if count > 1<<pageBits {
		return nil, fmt.Errorf("%w: paged fixed array of %d entries", ErrUnsupported, count)
	}
	if client != faPlainChunks && client != faFilteredChunks {
		return nil, fmt.Errorf("fixed array client %d", client)
	}
	if c.r.IsUndefined(blockAddr) {
		return nil, nil
	}

	br := c.r.At(int64(blockAddr))
	body := 4 + 2 + c.r.OffsetSize() + int(count)*int(entrySize)
	raw, err = br.ReadBytes(body)
	if err != nil {
		return nil, fmt.Errorf("fixed array data block: %w", err)
	}
	if err := checksum(br, raw); err != nil {
		return nil, fmt.Errorf("fixed array data block: %w", err)
	}
	if string(raw[:4]) != "FADB" {
		return nil, fmt.Errorf("fixed array data block: bad signature %q", raw[:4])
	}
	er := bin.NewReader(bytes.NewReader(raw), c.r.Config()).At(int64(6 + c.r.OffsetSize()))

	grid := chunkGrid(c.ds.Dims, c.layout.ChunkDims)
	full := uint32(c.layout.ChunkBytes())
	sizeWidth := int(entrySize) - c.r.OffsetSize() - 4
	if client == faFilteredChunks && (sizeWidth < 1 || sizeWidth > 8) {
		return nil, fmt.Errorf("fixed array entry size %d", entrySize)
	}
	var out []btree.Chunk
	for i := range count {
		ch := btree.Chunk{Size: full}
		if ch.Address, err = er.ReadOffset(); err != nil {
			return nil, err
		}
		if client == faFilteredChunks {
			size, err := er.ReadUintN(sizeWidth)
			if err != nil {
				return nil, err
			}
			ch.Size = uint32(size)
			if ch.FilterMask, err = er.ReadUint32(); err != nil {
				return nil, err
			}
		}
		if c.r.IsUndefined(ch.Address) {
			continue
		}
		ch.Offset = chunkOffset(i, grid, c.layout.ChunkDims)
		out = append(out, ch)
	}
	return out, nil
}

// checksum compares the lookup3 checksum following raw at r.
func checksum(r *bin.Reader, raw []byte) error {
	stored, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if stored != bin.Lookup3(raw) {
		return fmt.Errorf("checksum mismatch")
	}
	return nil
}
