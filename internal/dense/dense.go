// Package dense loads MODFLOW-style head output: an HDF5 dataset of shape
// (periods, cells...) reshaped into a (period, layer, row, col) grid, and
// extracts a cell's heads over time.
package dense

import (
	"fmt"
	"log/slog"
	"math"
	"math/bits"

	"github.com/zarladar/interactive-hydrograph/internal/hdf5"
	"github.com/zarladar/interactive-hydrograph/internal/herr"
	"github.com/zarladar/interactive-hydrograph/internal/series"
)

// Family names the model family whose arrays this package produces.
const Family = "MODFLOW"

// DefaultDataset is where MODFLOW HDF5 output keeps its heads.
const DefaultDataset = "/Datasets/Head/Values"

// Shape is the caller-declared grid extent.
type Shape struct {
	Rows   int
	Cols   int
	Layers int
}

// Cells is the number of values in one period, or -1 when the product
// does not fit in an int.
func (s Shape) Cells() int {
	n, ok := product(uint64(s.Rows), uint64(s.Cols), uint64(s.Layers))
	if !ok {
		return -1
	}
	return n
}

// product multiplies factors, reporting false when the result overflows
// an int.
func product(factors ...uint64) (int, bool) {
	n := uint64(1)
	for _, f := range factors {
		hi, lo := bits.Mul64(n, f)
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		n = lo
	}
	return int(n), true
}

func (s Shape) validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{{"rows", s.Rows}, {"cols", s.Cols}, {"layers", s.Layers}} {
		if f.v <= 0 {
			return &herr.InvalidParameterError{Field: f.name, Value: fmt.Sprint(f.v), Reason: "must be a positive integer"}
		}
	}
	return nil
}

// Grid is a loaded head array. Values is row-major over
// (period, layer, row, col).
type Grid struct {
	Source  string
	Periods int
	Layers  int
	Rows    int
	Cols    int
	Values  []float64
}

// Family reports the model family that produced the grid.
func (g *Grid) Family() string { return Family }

// Shape returns the grid extents in (periods, layers, rows, cols) order.
func (g *Grid) Shape() [4]int { return [4]int{g.Periods, g.Layers, g.Rows, g.Cols} }

// LogValue reports the grid extents.
func (g *Grid) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("periods", g.Periods),
		slog.Int("layers", g.Layers),
		slog.Int("rows", g.Rows),
		slog.Int("cols", g.Cols),
	)
}

func (g *Grid) index(p, l, r, c int) int {
	return ((p*g.Layers+l)*g.Rows+r)*g.Cols + c
}

// At returns a single head value. Indices are not checked.
func (g *Grid) At(p, l, r, c int) float64 { return g.Values[g.index(p, l, r, c)] }

// Load reads dataset from the HDF5 file at path and reshapes it to shape.
// An empty dataset selects DefaultDataset.
func Load(path string, shape Shape, dataset string) (*Grid, error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if dataset == "" {
		dataset = DefaultDataset
	}

	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening head file: %w", err)
	}
	defer f.Close()

	ds, err := f.OpenDataset(dataset)
	if err != nil {
		return nil, fmt.Errorf("opening head dataset: %w", err)
	}
	dims := ds.Shape()
	if len(dims) == 0 {
		return nil, &herr.ShapeMismatchError{Source: dataset, Declared: "a (period, cell) dataset", Expected: shape.Cells(), Actual: 0}
	}
	perPeriod, ok := product(dims[1:]...)
	if !ok {
		return nil, &herr.ShapeMismatchError{Source: dataset, Declared: "a (period, cell) dataset", Expected: shape.Cells(), Actual: -1}
	}
	if cells := shape.Cells(); cells != perPeriod {
		declared := fmt.Sprintf("rows*cols*layers = %d*%d*%d", shape.Rows, shape.Cols, shape.Layers)
		if cells < 0 {
			declared += " (overflows)"
		}
		return nil, &herr.ShapeMismatchError{
			Source:   dataset,
			Declared: declared,
			Expected: cells,
			Actual:   perPeriod,
		}
	}

	values, err := ds.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("reading head dataset: %w", err)
	}
	return &Grid{
		Source:  path,
		Periods: int(dims[0]),
		Layers:  shape.Layers,
		Rows:    shape.Rows,
		Cols:    shape.Cols,
		Values:  values,
	}, nil
}

// Extract returns the heads of cell (row, col) for every period and
// layer. row and col are 0-based.
func (g *Grid) Extract(row, col int) (series.TimeSeries, error) {
	if row < 0 || row >= g.Rows {
		return series.TimeSeries{}, &herr.IndexOutOfBoundsError{Field: "row", Value: row, Min: 0, Max: g.Rows - 1}
	}
	if col < 0 || col >= g.Cols {
		return series.TimeSeries{}, &herr.IndexOutOfBoundsError{Field: "col", Value: col, Min: 0, Max: g.Cols - 1}
	}
	s := series.TimeSeries{X: make([]int, g.Periods), Y: make([][]float64, g.Periods)}
	for p := range g.Periods {
		s.X[p] = p
		y := make([]float64, g.Layers)
		for l := range y {
			y[l] = g.At(p, l, row, col)
		}
		s.Y[p] = y
	}
	return s, nil
}
