package layout

import (
	"errors"
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/filter"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// ErrUnsupported reports a storage layout or chunk index the reader does
// not implement.
var ErrUnsupported = errors.New("unsupported storage")

// Layout reads the stored bytes of one dataset.
type Layout interface {
	Class() message.LayoutClass
	Read() ([]byte, error)
}

// Dataset carries what every layout needs to size its output.
type Dataset struct {
	Dims     []uint64
	ElemSize int
	Filters  *filter.Pipeline
}

// Bytes is the size of the whole dataset in memory.
func (d Dataset) Bytes() uint64 {
	n := uint64(d.ElemSize)
	for _, v := range d.Dims {
		n *= v
	}
	return n
}

// New returns the reader for l.
func New(r *bin.Reader, l *message.DataLayout, ds Dataset) (Layout, error) {
	if ds.Filters == nil {
		ds.Filters = &filter.Pipeline{}
	}
	switch l.Class {
	case message.LayoutCompact:
		return &Compact{data: l.Data, ds: ds}, nil
	case message.LayoutContiguous:
		return &Contiguous{r: r, address: l.Address, size: l.Size, ds: ds}, nil
	case message.LayoutChunked:
		if len(l.ChunkDims) != len(ds.Dims) {
			return nil, fmt.Errorf("chunk rank %d for dataset rank %d", len(l.ChunkDims), len(ds.Dims))
		}
		return &Chunked{r: r, layout: l, ds: ds}, nil
	default:
		return nil, fmt.Errorf("%w: layout class %v", ErrUnsupported, l.Class)
	}
}

// Compact data lives in the layout message itself.
type Compact struct {
	data []byte
	ds   Dataset
}

func (c *Compact) Class() message.LayoutClass { return message.LayoutCompact }

func (c *Compact) Read() ([]byte, error) {
	if uint64(len(c.data)) < c.ds.Bytes() {
		return nil, fmt.Errorf("compact data holds %d bytes, dataset needs %d", len(c.data), c.ds.Bytes())
	}
	return c.data[:c.ds.Bytes()], nil
}

// Contiguous data is one block in the file. An undefined address means
// the storage was never written and reads as zero fill.
type Contiguous struct {
	r       *bin.Reader
	address uint64
	size    uint64
	ds      Dataset
}

func (c *Contiguous) Class() message.LayoutClass { return message.LayoutContiguous }

func (c *Contiguous) Read() ([]byte, error) {
	want := c.ds.Bytes()
	if c.r.IsUndefined(c.address) {
		return make([]byte, want), nil
	}
	if c.size != 0 && c.size < want {
		return nil, fmt.Errorf("contiguous storage of %d bytes, dataset needs %d", c.size, want)
	}
	data, err := c.r.At(int64(c.address)).ReadBytes(int(want))
	if err != nil {
		return nil, fmt.Errorf("contiguous data at %d: %w", c.address, err)
	}
	return data, nil
}
