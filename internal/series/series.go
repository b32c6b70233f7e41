// Package series holds the extracted time series shared by every model
// family.
package series

// TimeSeries is one location's heads over time. X is the period index
// 0..N-1; Y[t] holds one value per layer at period t. Labels, when the
// source has them, are the time labels of each period.
type TimeSeries struct {
	X      []int
	Y      [][]float64
	Labels []string
}

// Periods is the number of time steps.
func (s TimeSeries) Periods() int { return len(s.X) }

// Layers is the number of values per period.
func (s TimeSeries) Layers() int {
	if len(s.Y) == 0 {
		return 0
	}
	return len(s.Y[0])
}

// Layer returns the series of layer i (0-based) across all periods, or
// nil when i is out of range.
func (s TimeSeries) Layer(i int) []float64 {
	if i < 0 || i >= s.Layers() {
		return nil
	}
	out := make([]float64, len(s.Y))
	for t, row := range s.Y {
		out[t] = row[i]
	}
	return out
}
