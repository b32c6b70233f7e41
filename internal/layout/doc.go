// Package layout reads a dataset's raw bytes from its storage: compact
// (inside the header), contiguous, or chunked behind a v1 B-tree, single
// chunk, implicit or fixed array index. Output is always the whole
// dataset in row-major order.
//
// # Reading
//
// [New] picks the [Layout] for a data layout message:
//
//	l, err := layout.New(r, msg, layout.Dataset{Dims: dims, ElemSize: 8, Filters: pipe})
//	raw, err := l.Read()
//
// Chunks missing from the index read as zero. Extensible array and
// version 2 B-tree indexes return [ErrUnsupported].
//
// # Writing
//
// [Split] cuts a row-major buffer into filtered chunk [Piece]s. Once the
// writer has placed them, [Index] and [IndexEnd] give the chunk keys for
// a single-leaf v1 B-tree.
package layout
