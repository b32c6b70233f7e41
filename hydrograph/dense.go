package hydrograph

import (
	"github.com/zarladar/interactive-hydrograph/internal/dense"
)

// DenseModel loads MODFLOW heads from an HDF5 dataset.
type DenseModel struct {
	dataset string
}

// NewDenseModel reads heads from dataset, or dense.DefaultDataset when
// dataset is empty.
func NewDenseModel(dataset string) *DenseModel {
	if dataset == "" {
		dataset = dense.DefaultDataset
	}
	return &DenseModel{dataset: dataset}
}

var (
	denseSize = NewFieldTable(MODFLOW, map[string]string{
		"Model Rows":    "rows",
		"Model Columns": "cols",
		"Model Layers":  "layers",
	})
	denseLocation = NewFieldTable(MODFLOW, map[string]string{
		"Row":    "row",
		"Column": "col",
	})
)

func (m *DenseModel) ID() ModelID                { return MODFLOW }
func (m *DenseModel) SizeFields() FieldTable     { return denseSize }
func (m *DenseModel) LocationFields() FieldTable { return denseLocation }

// Dataset is the HDF5 path heads are read from.
func (m *DenseModel) Dataset() string { return m.dataset }

// Load reads the rows, cols and layers params and returns a *dense.Grid.
func (m *DenseModel) Load(path string, p Params) (Array, error) {
	n, err := ints(p, "rows", "cols", "layers")
	if err != nil {
		return nil, err
	}
	g, err := dense.Load(path, dense.Shape{Rows: n[0], Cols: n[1], Layers: n[2]}, m.dataset)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Extract reads the 0-based row and col params.
func (m *DenseModel) Extract(a Array, p Params) (TimeSeries, error) {
	g, ok := a.(*dense.Grid)
	if !ok {
		return TimeSeries{}, arrayMismatch(a, MODFLOW)
	}
	n, err := ints(p, "row", "col")
	if err != nil {
		return TimeSeries{}, err
	}
	return g.Extract(n[0], n[1])
}
