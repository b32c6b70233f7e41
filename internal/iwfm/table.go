package iwfm

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/zarladar/interactive-hydrograph/internal/herr"
	"github.com/zarladar/interactive-hydrograph/internal/series"
)

// Shape is the caller-declared extent of a report.
type Shape struct {
	Elements int
	Layers   int
}

func (s Shape) validate() error {
	if s.Elements <= 0 {
		return &herr.InvalidParameterError{Field: "elements", Value: strconv.Itoa(s.Elements), Reason: "must be a positive integer"}
	}
	if s.Layers <= 0 {
		return &herr.InvalidParameterError{Field: "layers", Value: strconv.Itoa(s.Layers), Reason: "must be a positive integer"}
	}
	return nil
}

// Schema is the layout of a Table's record: one row per
// (step, layer, node), ordered by step, then layer, then node.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "time", Type: arrow.BinaryTypes.String},
	{Name: "layer", Type: arrow.PrimitiveTypes.Int64},
	{Name: "node", Type: arrow.PrimitiveTypes.Int64},
	{Name: "head", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// Table is a loaded artifact.
type Table struct {
	Source   string
	Elements int
	Layers   int
	// Labels holds the time label of each step.
	Labels []string

	rec  arrow.Record
	head *array.Float64
}

// Family reports the model family that produced the table.
func (t *Table) Family() string { return Family }

// Steps is the number of time steps.
func (t *Table) Steps() int { return len(t.Labels) }

func (t *Table) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", t.Steps()),
		slog.Int("layers", t.Layers),
		slog.Int("elements", t.Elements),
	)
}

// Record exposes the underlying columns. It stays valid until Release.
func (t *Table) Record() arrow.Record { return t.rec }

// Release frees the table's buffers.
func (t *Table) Release() {
	if t.rec != nil {
		t.rec.Release()
		t.rec = nil
		t.head = nil
	}
}

// Extract returns the heads of a node for every step and layer. element
// is the 1-based node number.
func (t *Table) Extract(element int) (series.TimeSeries, error) {
	if element < 1 || element > t.Elements {
		return series.TimeSeries{}, &herr.IndexOutOfBoundsError{Field: "element", Value: element, Min: 1, Max: t.Elements}
	}
	n := t.Steps()
	s := series.TimeSeries{
		X:      make([]int, n),
		Y:      make([][]float64, n),
		Labels: append([]string(nil), t.Labels...),
	}
	for step := range n {
		s.X[step] = step
		y := make([]float64, t.Layers)
		for l := range y {
			y[l] = t.head.Value((step*t.Layers+l)*t.Elements + element - 1)
		}
		s.Y[step] = y
	}
	return s, nil
}

// LoadTable parses the artifact at path. A nil mem uses the Go allocator.
func LoadTable(path string, shape Shape, mem memory.Allocator) (*Table, error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()
	var (
		times  = b.Field(0).(*array.StringBuilder)
		layers = b.Field(1).(*array.Int64Builder)
		nodes  = b.Field(2).(*array.Int64Builder)
		heads  = b.Field(3).(*array.Float64Builder)
	)

	t := &Table{Elements: shape.Elements, Layers: shape.Layers}
	malformed := func(line int, format string, args ...any) error {
		return &herr.MalformedSourceError{Source: path, Line: line, Reason: fmt.Sprintf(format, args...)}
	}
	stepEnd := func(got int) error {
		if got != shape.Layers {
			return &herr.ShapeMismatchError{
				Source:   fmt.Sprintf("%s: step %q", path, t.Labels[len(t.Labels)-1]),
				Declared: "layers",
				Expected: shape.Layers,
				Actual:   got,
			}
		}
		return nil
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	line, inStep := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, malformed(line, "record needs a label, values and a layer")
		}
		label, vals := fields[0], fields[1:len(fields)-1]
		layer, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return nil, malformed(line, "layer %q is not an integer", fields[len(fields)-1])
		}

		if layer == 1 {
			if len(t.Labels) > 0 {
				if err := stepEnd(inStep); err != nil {
					return nil, err
				}
			}
			t.Labels = append(t.Labels, label)
			inStep = 0
		} else if layer != inStep+1 || len(t.Labels) == 0 {
			return nil, malformed(line, "layer %d follows layer %d", layer, inStep)
		}
		inStep = layer
		if layer > shape.Layers {
			return nil, stepEnd(layer)
		}
		if len(vals) != shape.Elements {
			return nil, &herr.ShapeMismatchError{
				Source:   fmt.Sprintf("%s:%d", path, line),
				Declared: "elements",
				Expected: shape.Elements,
				Actual:   len(vals),
			}
		}

		for i, v := range vals {
			h, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, malformed(line, "head %q is not a number", v)
			}
			times.Append(label)
			layers.Append(int64(layer))
			nodes.Append(int64(i + 1))
			heads.Append(h)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, scanErr(err, path, line)
	}
	if len(t.Labels) == 0 {
		return nil, malformed(0, "no records")
	}
	if err := stepEnd(inStep); err != nil {
		return nil, err
	}

	t.Source = path
	t.rec = b.NewRecord()
	t.head = t.rec.Column(3).(*array.Float64)
	return t, nil
}
