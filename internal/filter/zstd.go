package filter

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// zstdFilter is registered filter 32015: one Zstandard frame per chunk.
// Client data [0] is the encoding level.
type zstdFilter struct {
	level int
}

func newZstd(cd []uint32) zstdFilter {
	f := zstdFilter{level: 3}
	if len(cd) > 0 && cd[0] > 0 {
		f.level = int(cd[0])
	}
	return f
}

// A single decoder serves every chunk; DecodeAll is safe for concurrent use.
var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
})

func (zstdFilter) ID() uint16 { return message.FilterZstd }

func (zstdFilter) Decode(in []byte) ([]byte, error) {
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(in, nil)
}

func (f zstdFilter) Encode(in []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(f.level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}
