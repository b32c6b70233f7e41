package filter

import "github.com/zarladar/interactive-hydrograph/internal/message"

// shuffle is filter 2. It groups byte k of every element together; bytes
// past the last whole element are left in place.
type shuffle struct {
	size int
}

func newShuffle(cd []uint32, elemSize int) shuffle {
	if len(cd) > 0 && cd[0] > 0 {
		elemSize = int(cd[0])
	}
	return shuffle{size: elemSize}
}

func (shuffle) ID() uint16 { return message.FilterShuffle }

func (f shuffle) Decode(in []byte) ([]byte, error) {
	n := f.elements(in)
	if n == 0 {
		return in, nil
	}
	out := make([]byte, len(in))
	for i := 0; i < n; i++ {
		for k := 0; k < f.size; k++ {
			out[i*f.size+k] = in[k*n+i]
		}
	}
	copy(out[n*f.size:], in[n*f.size:])
	return out, nil
}

func (f shuffle) Encode(in []byte) ([]byte, error) {
	n := f.elements(in)
	if n == 0 {
		return in, nil
	}
	out := make([]byte, len(in))
	for i := 0; i < n; i++ {
		for k := 0; k < f.size; k++ {
			out[k*n+i] = in[i*f.size+k]
		}
	}
	copy(out[n*f.size:], in[n*f.size:])
	return out, nil
}

func (f shuffle) elements(in []byte) int {
	if f.size <= 1 {
		return 0
	}
	return len(in) / f.size
}
