package filter

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// deflate is filter 1: a zlib stream. Client data [0] is the level used
// when encoding.
type deflate struct {
	level int
}

func newDeflate(cd []uint32) deflate {
	level := zlib.DefaultCompression
	if len(cd) > 0 && cd[0] <= 9 {
		level = int(cd[0])
	}
	return deflate{level: level}
}

func (deflate) ID() uint16 { return message.FilterDeflate }

func (deflate) Decode(in []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func (f deflate) Encode(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, f.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(in); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
