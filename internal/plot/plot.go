// Package plot renders a head series as a PNG hydrograph.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/zarladar/interactive-hydrograph/internal/series"
)

var layerColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
	color.RGBA{R: 140, G: 86, B: 75, A: 255},
}

// maxLabelTicks is the most time labels drawn on the x axis; longer series
// get numeric ticks.
const maxLabelTicks = 12

// Options control the rendering.
type Options struct {
	Title string
	// Layers lists the 1-based layers to draw. Empty means all.
	Layers []int
	Width  vg.Length
	Height vg.Length
}

// Hydrograph renders s and returns the PNG bytes.
func Hydrograph(s series.TimeSeries, opts Options) ([]byte, error) {
	if s.Periods() == 0 {
		return nil, errors.New("no periods to plot")
	}
	layers := opts.Layers
	if len(layers) == 0 {
		for l := 1; l <= s.Layers(); l++ {
			layers = append(layers, l)
		}
	}
	if opts.Width == 0 {
		opts.Width = vg.Points(800)
	}
	if opts.Height == 0 {
		opts.Height = vg.Points(400)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time step"
	p.Y.Label.Text = "Head"
	p.Add(plotter.NewGrid())
	if len(s.Labels) == s.Periods() {
		p.X.Tick.Marker = plot.ConstantTicks(labelTicks(s.Labels))
	}

	for i, l := range layers {
		y := s.Layer(l - 1)
		if y == nil {
			return nil, fmt.Errorf("layer %d is outside 1..%d", l, s.Layers())
		}
		pts := make(plotter.XYs, len(y))
		for t, v := range y {
			pts[t] = plotter.XY{X: float64(s.X[t]), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for layer %d: %w", l, err)
		}
		line.Color = layerColors[i%len(layerColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Layer %d", l), line)
	}
	p.Legend.Top = true

	w, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	return buf.Bytes(), nil
}

// labelTicks spreads at most maxLabelTicks time labels over the axis.
func labelTicks(labels []string) []plot.Tick {
	step := (len(labels) + maxLabelTicks - 1) / maxLabelTicks
	var ticks []plot.Tick
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}
