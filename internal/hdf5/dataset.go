package hdf5

import (
	"fmt"
	"path"

	"github.com/zarladar/interactive-hydrograph/internal/dtype"
	"github.com/zarladar/interactive-hydrograph/internal/filter"
	"github.com/zarladar/interactive-hydrograph/internal/layout"
	"github.com/zarladar/interactive-hydrograph/internal/message"
	"github.com/zarladar/interactive-hydrograph/internal/object"
)

// Dataset is an open HDF5 dataset.
type Dataset struct {
	file     *File
	path     string
	header   *object.Header
	space    *message.Dataspace
	datatype *message.Datatype
	layout   *message.DataLayout
	filters  *message.FilterPipeline
}

func newDataset(f *File, p string, h *object.Header) (*Dataset, error) {
	d := &Dataset{
		file:     f,
		path:     p,
		header:   h,
		space:    h.Dataspace(),
		datatype: h.Datatype(),
		layout:   h.Layout(),
		filters:  h.Filters(),
	}
	if d.datatype == nil {
		return nil, fmt.Errorf("%s: dataset has no datatype message", p)
	}
	return d, nil
}

func (d *Dataset) Name() string { return path.Base(d.path) }
func (d *Dataset) Path() string { return d.path }

// Shape returns the current dimensions; empty for a scalar.
func (d *Dataset) Shape() []uint64 { return append([]uint64(nil), d.space.Dims...) }

func (d *Dataset) Rank() int { return len(d.space.Dims) }

// Len is the number of elements.
func (d *Dataset) Len() uint64 { return d.space.Elements() }

func (d *Dataset) Datatype() *message.Datatype { return d.datatype }
func (d *Dataset) Layout() *message.DataLayout { return d.layout }
func (d *Dataset) Filters() *message.FilterPipeline { return d.filters }

// ReadRaw returns the dataset's bytes in row-major order, with filters
// undone.
func (d *Dataset) ReadRaw() ([]byte, error) {
	if d.file.closed {
		return nil, ErrClosed
	}
	size := int(d.datatype.Size)
	pipe, err := filter.NewPipeline(d.filters, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}
	lay, err := layout.New(d.file.reader, d.layout, layout.Dataset{Dims: d.space.Dims, ElemSize: size, Filters: pipe})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}
	raw, err := lay.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}
	return raw, nil
}

// ReadFloat64 reads a numeric dataset of any width as float64.
func (d *Dataset) ReadFloat64() ([]float64, error) {
	if err := dtype.Check(d.datatype); err != nil {
		return nil, fmt.Errorf("%s: %w", d.path, err)
	}
	raw, err := d.ReadRaw()
	if err != nil {
		return nil, err
	}
	return dtype.Float64s(raw, d.datatype)
}
