// Package filter implements the HDF5 chunk filters the reader understands:
// deflate, shuffle and Fletcher32 from the core library, plus the
// registered LZ4 and Zstandard plugins. Each filter also encodes, which the
// writer uses to produce filtered fixtures.
//
// # Supported Filters
//
//   - deflate (ID 1): zlib streams, decoded with klauspost/compress.
//   - shuffle (ID 2): byte transposition by element size, usually placed
//     before a compressor.
//   - fletcher32 (ID 3): a 32-bit checksum appended to each chunk.
//   - lz4 (ID 32004): the HDF5 LZ4 plugin framing of one or more blocks.
//   - zstd (ID 32015): one Zstandard frame per chunk.
//
// SZIP, N-bit and scale-offset have names for diagnostics but no
// implementation. A mandatory filter without one makes [New] return
// [ErrUnsupported]; an optional one is skipped.
//
// # Filter Pipeline
//
// A [Pipeline] holds a dataset's filters in message order:
//
//	p, err := filter.NewPipeline(fp, elemSize)
//	raw, err := p.Decode(chunk, mask)
//
// Decode runs the filters in reverse. Bit i of a chunk's filter mask
// marks filter i as not applied to that chunk.
package filter
