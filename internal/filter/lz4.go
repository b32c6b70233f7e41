package filter

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

var errLZ4Frame = errors.New("malformed lz4 chunk")

// defaultLZ4Block matches the plugin's default block size.
const defaultLZ4Block = 1 << 30

// lz4Filter is registered filter 32004. A chunk is
//
//	original size (8, big-endian), block size (4, big-endian),
//	then per block: compressed size (4, big-endian), block bytes
//
// A block whose compressed size equals its original size is stored raw.
type lz4Filter struct {
	block int
}

func newLZ4(cd []uint32) lz4Filter {
	f := lz4Filter{block: defaultLZ4Block}
	if len(cd) > 0 && cd[0] > 0 {
		f.block = int(cd[0])
	}
	return f
}

func (lz4Filter) ID() uint16 { return message.FilterLZ4 }

func (lz4Filter) Decode(in []byte) ([]byte, error) {
	if len(in) < 12 {
		return nil, errLZ4Frame
	}
	total := binary.BigEndian.Uint64(in)
	block := int(binary.BigEndian.Uint32(in[8:]))
	if block <= 0 {
		return nil, errLZ4Frame
	}
	out := make([]byte, total)
	src := in[12:]
	for pos := 0; pos < len(out); {
		if len(src) < 4 {
			return nil, errLZ4Frame
		}
		want := min(block, len(out)-pos)
		n := int(binary.BigEndian.Uint32(src))
		src = src[4:]
		if n > len(src) {
			return nil, errLZ4Frame
		}
		if n == want {
			copy(out[pos:], src[:n])
		} else {
			got, err := lz4.UncompressBlock(src[:n], out[pos:pos+want])
			if err != nil {
				return nil, err
			}
			if got != want {
				return nil, fmt.Errorf("%w: block of %d bytes, want %d", errLZ4Frame, got, want)
			}
		}
		src = src[n:]
		pos += want
	}
	return out, nil
}

func (f lz4Filter) Encode(in []byte) ([]byte, error) {
	out := binary.BigEndian.AppendUint64(nil, uint64(len(in)))
	out = binary.BigEndian.AppendUint32(out, uint32(f.block))
	scratch := make([]byte, lz4.CompressBlockBound(min(f.block, len(in))))
	for pos := 0; pos < len(in); {
		blk := in[pos:min(pos+f.block, len(in))]
		n, err := lz4.CompressBlock(blk, scratch, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(blk) {
			out = binary.BigEndian.AppendUint32(out, uint32(len(blk)))
			out = append(out, blk...)
		} else {
			out = binary.BigEndian.AppendUint32(out, uint32(n))
			out = append(out, scratch[:n]...)
		}
		pos += len(blk)
	}
	return out, nil
}
