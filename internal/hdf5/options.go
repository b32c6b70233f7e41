package hdf5

import "github.com/zarladar/interactive-hydrograph/internal/message"

// FileOption configures Create.
type FileOption func(*fileOptions)

type fileOptions struct {
	offsetSize int
	lengthSize int
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{offsetSize: 8, lengthSize: 8}
}

// WithOffsetSize sets the width of file addresses (2, 4 or 8 bytes).
func WithOffsetSize(size int) FileOption {
	return func(o *fileOptions) { o.offsetSize = size }
}

// WithLengthSize sets the width of length fields (2, 4 or 8 bytes).
func WithLengthSize(size int) FileOption {
	return func(o *fileOptions) { o.lengthSize = size }
}

// DatasetOption configures CreateDataset.
type DatasetOption func(*datasetOptions)

type datasetOptions struct {
	datatype *message.Datatype
	chunks   []uint64
	filters  []message.FilterSpec
	compact  bool
}

func defaultDatasetOptions() *datasetOptions {
	return &datasetOptions{datatype: message.NewFloat(8, false)}
}

// WithDatatype stores values as dt instead of little-endian float64.
func WithDatatype(dt *message.Datatype) DatasetOption {
	return func(o *datasetOptions) { o.datatype = dt }
}

// WithChunks stores the dataset in chunks of the given shape.
func WithChunks(dims ...uint64) DatasetOption {
	return func(o *datasetOptions) { o.chunks = dims }
}

// WithCompact stores the data inside the object header.
func WithCompact() DatasetOption {
	return func(o *datasetOptions) { o.compact = true }
}

// WithShuffle adds the byte shuffle filter. Filters apply in the order
// their options are given and require chunked storage.
func WithShuffle() DatasetOption {
	return withFilter(message.FilterSpec{ID: message.FilterShuffle})
}

// WithDeflate adds zlib compression at level.
func WithDeflate(level int) DatasetOption {
	return withFilter(message.FilterSpec{ID: message.FilterDeflate, ClientData: []uint32{uint32(level)}})
}

// WithFletcher32 appends a checksum to every chunk.
func WithFletcher32() DatasetOption {
	return withFilter(message.FilterSpec{ID: message.FilterFletcher32})
}

// WithLZ4 adds the registered LZ4 filter.
func WithLZ4() DatasetOption {
	return withFilter(message.FilterSpec{ID: message.FilterLZ4, Flags: message.FilterOptional, Name: "lz4"})
}

// WithZstd adds the registered Zstandard filter at level.
func WithZstd(level int) DatasetOption {
	return withFilter(message.FilterSpec{ID: message.FilterZstd, Flags: message.FilterOptional,
		Name: "zstd", ClientData: []uint32{uint32(level)}})
}

func withFilter(spec message.FilterSpec) DatasetOption {
	return func(o *datasetOptions) { o.filters = append(o.filters, spec) }
}
