package filter

import (
	"errors"
	"fmt"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// ErrUnsupported reports a mandatory filter with no implementation.
var ErrUnsupported = errors.New("unsupported filter")

// Filter transforms one chunk in both directions.
type Filter interface {
	ID() uint16
	Decode(in []byte) ([]byte, error)
	Encode(in []byte) ([]byte, error)
}

// builder constructs a filter from its client data and the dataset's
// element size.
type builder func(cd []uint32, elemSize int) Filter

var builders = map[uint16]builder{
	message.FilterDeflate:    func(cd []uint32, _ int) Filter { return newDeflate(cd) },
	message.FilterShuffle:    func(cd []uint32, n int) Filter { return newShuffle(cd, n) },
	message.FilterFletcher32: func([]uint32, int) Filter { return fletcher32{} },
	message.FilterLZ4:        func(cd []uint32, _ int) Filter { return newLZ4(cd) },
	message.FilterZstd:       func(cd []uint32, _ int) Filter { return newZstd(cd) },
}

var names = map[uint16]string{
	message.FilterDeflate:     "deflate",
	message.FilterShuffle:     "shuffle",
	message.FilterFletcher32:  "fletcher32",
	message.FilterSZIP:        "szip",
	message.FilterNBit:        "nbit",
	message.FilterScaleOffset: "scaleoffset",
	message.FilterLZ4:         "lz4",
	message.FilterZstd:        "zstd",
}

// Name returns the conventional name of filter id.
func Name(id uint16) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("filter-%d", id)
}

// New builds the filter described by spec. It returns nil, nil for an
// optional filter with no implementation.
func New(spec message.FilterSpec, elemSize int) (Filter, error) {
	b, ok := builders[spec.ID]
	if !ok {
		if spec.Optional() {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s (id %d)", ErrUnsupported, Name(spec.ID), spec.ID)
	}
	return b(spec.ClientData, elemSize), nil
}
