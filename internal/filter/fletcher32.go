package filter

import (
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// ErrChecksum reports a chunk whose Fletcher32 checksum does not match.
var ErrChecksum = errors.New("chunk checksum mismatch")

// fletcher32 is filter 3: the checksum of the chunk appended as four
// little-endian bytes.
type fletcher32 struct{}

func (fletcher32) ID() uint16 { return message.FilterFletcher32 }

func (fletcher32) Decode(in []byte) ([]byte, error) {
	if len(in) < 4 {
		return nil, fmt.Errorf("%w: %d byte chunk", ErrChecksum, len(in))
	}
	data := in[:len(in)-4]
	stored := binary.LittleEndian.Uint32(in[len(in)-4:])
	sum := bin.Fletcher32(data)
	// Some older writers stored each 16-bit half byte-swapped.
	swapped := (sum&0x00ff00ff)<<8 | (sum&0xff00ff00)>>8
	if stored != sum && stored != swapped {
		return nil, fmt.Errorf("%w: stored %#08x, computed %#08x", ErrChecksum, stored, sum)
	}
	return data, nil
}

func (fletcher32) Encode(in []byte) ([]byte, error) {
	out := make([]byte, len(in), len(in)+4)
	copy(out, in)
	return binary.LittleEndian.AppendUint32(out, bin.Fletcher32(in)), nil
}
