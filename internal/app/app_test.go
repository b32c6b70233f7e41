package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarladar/interactive-hydrograph/hydrograph"
	"github.com/zarladar/interactive-hydrograph/internal/hdf5"
)

// headFile writes 3 periods of a 2-layer, 2x2 grid; the value at
// (p, l, r, c) is 1000p + 100l + 10r + c.
func headFile(t *testing.T) string {
	t.Helper()
	var vals []float64
	for p := range 3 {
		for l := range 2 {
			for r := range 2 {
				for c := range 2 {
					vals = append(vals, float64(1000*p+100*l+10*r+c))
				}
			}
		}
	}
	path := filepath.Join(t.TempDir(), "heads.h5")
	w, err := hdf5.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.CreateDataset("/Datasets/Head/Values", []uint64{3, 8}, vals))
	require.NoError(t, w.Close())
	return path
}

var gridSizes = map[string]string{"Model Rows": "2", "Model Columns": "2", "Model Layers": "2"}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("warn", "json", &buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])

	buf.Reset()
	newLogger("bogus", "text", &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{Model: "MODFLOW"})
	assert.Error(t, err)
	_, err = NewConfig(Config{File: "heads.h5"})
	assert.Error(t, err)
	_, err = NewConfig(Config{File: "heads.h5", Model: "MODFLOW", Layer: -1})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{File: "heads.h5", Model: "MODFLOW"})
	require.NoError(t, err)
	assert.Equal(t, "heads.h5", cfg.File)
}

func TestRunCSV(t *testing.T) {
	var out, logs bytes.Buffer
	cfg := &Config{
		Model:     "MODFLOW",
		File:      headFile(t),
		Sizes:     gridSizes,
		Locations: map[string]string{"Row": "1", "Column": "0"},
		LogLevel:  "debug",
	}
	require.NoError(t, Run(&out, &logs, cfg))

	want := "step,label,layer1,layer2\n" +
		"0,,10,110\n" +
		"1,,1010,1110\n" +
		"2,,2010,2110\n"
	assert.Equal(t, want, out.String())
	assert.Contains(t, logs.String(), "Loaded head array.")
}

func TestRunSingleLayer(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{
		Model:     "MODFLOW",
		File:      headFile(t),
		Sizes:     gridSizes,
		Locations: map[string]string{"Row": "0", "Column": "1"},
		Layer:     2,
	}
	require.NoError(t, Run(&out, &bytes.Buffer{}, cfg))
	assert.Equal(t, "step,label,layer2\n0,,101\n1,,1101\n2,,2101\n", out.String())

	cfg.Layer = 3
	assert.ErrorContains(t, Run(&out, &bytes.Buffer{}, cfg), "layer 3")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "hydrograph.hcl")
	src := `
log_level = "warn"
model "MODFLOW" {
  size     = { "Model Rows" = 2, "Model Columns" = 2, "Model Layers" = 2 }
  location = { "Row" = 0, "Column" = 0 }
}
`
	require.NoError(t, os.WriteFile(conf, []byte(src), 0o644))

	var out, logs bytes.Buffer
	cfg := &Config{
		ConfigPath: conf,
		Model:      "MODFLOW",
		File:       headFile(t),
		Locations:  map[string]string{"Column": "1"},
	}
	require.NoError(t, Run(&out, &logs, cfg))
	assert.Contains(t, out.String(), "0,,1,101\n")
	assert.Empty(t, logs.String())
}

func TestRunPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hydrograph.png")
	cfg := &Config{
		Model:     "MODFLOW",
		File:      headFile(t),
		Sizes:     gridSizes,
		Locations: map[string]string{"Row": "1", "Column": "1"},
		Out:       out,
	}
	require.NoError(t, Run(&bytes.Buffer{}, &bytes.Buffer{}, cfg))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRunCSVFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "series.csv")
	cfg := &Config{
		Model:     "MODFLOW",
		File:      headFile(t),
		Sizes:     gridSizes,
		Locations: map[string]string{"Row": "0", "Column": "0"},
		Out:       out,
	}
	require.NoError(t, Run(&bytes.Buffer{}, &bytes.Buffer{}, cfg))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2,,2000,2100\n")
}

func TestRunErrors(t *testing.T) {
	file := headFile(t)
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"model", Config{Model: "SWAT", File: file}, hydrograph.ErrUnsupportedModel},
		{"label", Config{Model: "MODFLOW", File: file, Sizes: map[string]string{"Rows": "2"}}, hydrograph.ErrUnknownField},
		{"shape", Config{Model: "MODFLOW", File: file,
			Sizes: map[string]string{"Model Rows": "3", "Model Columns": "2", "Model Layers": "2"}}, hydrograph.ErrShapeMismatch},
		{"bounds", Config{Model: "MODFLOW", File: file, Sizes: gridSizes,
			Locations: map[string]string{"Row": "2", "Column": "0"}}, hydrograph.ErrIndexOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(&bytes.Buffer{}, &bytes.Buffer{}, &tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteCSVLabels(t *testing.T) {
	var buf bytes.Buffer
	ts := hydrograph.TimeSeries{X: []int{0, 1}, Y: [][]float64{{1.5}, {2.25}}, Labels: []string{"09/30/1973_24:00", "10/31/1973_24:00"}}
	require.NoError(t, WriteCSV(&buf, ts, []int{1}))
	assert.Equal(t, "step,label,layer1\n0,09/30/1973_24:00,1.5\n1,10/31/1973_24:00,2.25\n", buf.String())
}
