package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarladar/interactive-hydrograph/hydrograph"
)

func readParquet(t *testing.T, path string) arrow.Table {
	t.Helper()
	pf, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer pf.Close()
	r, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)
	tbl, err := r.ReadTable(context.Background())
	require.NoError(t, err)
	t.Cleanup(tbl.Release)
	return tbl
}

func TestRunParquet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "series.parquet")
	cfg := &Config{
		Model:     "MODFLOW",
		File:      headFile(t),
		Sizes:     gridSizes,
		Locations: map[string]string{"Row": "1", "Column": "1"},
		Out:       out,
	}
	require.NoError(t, Run(&bytes.Buffer{}, &bytes.Buffer{}, cfg))

	tbl := readParquet(t, out)
	assert.EqualValues(t, 3, tbl.NumRows())
	require.EqualValues(t, 4, tbl.NumCols())
	assert.Equal(t, "layer2", tbl.Schema().Field(3).Name)

	heads := tbl.Column(3).Data().Chunk(0).(*array.Float64)
	assert.Equal(t, []float64{111, 1111, 2111}, heads.Float64Values())
}

func TestWriteParquetLabels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "labels.parquet")
	ts := hydrograph.TimeSeries{
		X:      []int{0, 1},
		Y:      [][]float64{{1.5, 2.5}, {3.5, 4.5}},
		Labels: []string{"10/31/1973_24:00", "11/30/1973_24:00"},
	}
	require.NoError(t, WriteParquet(out, ts, []int{2}))

	tbl := readParquet(t, out)
	require.EqualValues(t, 3, tbl.NumCols())
	labels := tbl.Column(1).Data().Chunk(0).(*array.String)
	assert.Equal(t, "11/30/1973_24:00", labels.Value(1))
	heads := tbl.Column(2).Data().Chunk(0).(*array.Float64)
	assert.Equal(t, []float64{2.5, 4.5}, heads.Float64Values())
}
