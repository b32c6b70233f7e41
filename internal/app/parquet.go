package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/zarladar/interactive-hydrograph/hydrograph"
)

// seriesSchema has the same columns as the CSV output.
func seriesSchema(layers []int) *arrow.Schema {
	fields := []arrow.Field{
		{Name: "step", Type: arrow.PrimitiveTypes.Int64},
		{Name: "label", Type: arrow.BinaryTypes.String},
	}
	for _, l := range layers {
		fields = append(fields, arrow.Field{Name: "layer" + strconv.Itoa(l), Type: arrow.PrimitiveTypes.Float64})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteParquet writes ts to a Snappy-compressed Parquet file at path.
func WriteParquet(path string, ts hydrograph.TimeSeries, layers []int) error {
	schema := seriesSchema(layers)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	steps := b.Field(0).(*array.Int64Builder)
	labels := b.Field(1).(*array.StringBuilder)
	for t, x := range ts.X {
		steps.Append(int64(x))
		if t < len(ts.Labels) {
			labels.Append(ts.Labels[t])
		} else {
			labels.AppendNull()
		}
		for i, l := range layers {
			b.Field(2 + i).(*array.Float64Builder).Append(ts.Y[t][l-1])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(schema, file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
