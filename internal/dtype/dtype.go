package dtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// ErrNotNumeric reports a datatype that has no float64 conversion.
var ErrNotNumeric = errors.New("datatype is not numeric")

func order(dt *message.Datatype) binary.ByteOrder {
	if dt.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Check reports whether dt converts, without touching any data.
func Check(dt *message.Datatype) error {
	switch {
	case dt == nil:
		return fmt.Errorf("%w: missing datatype", ErrNotNumeric)
	case dt.Class == message.ClassFloat && (dt.Size == 4 || dt.Size == 8):
		return nil
	case dt.Class == message.ClassFixed && (dt.Size == 1 || dt.Size == 2 || dt.Size == 4 || dt.Size == 8):
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNotNumeric, dt)
}

// Float64s decodes raw as consecutive elements of dt.
func Float64s(raw []byte, dt *message.Datatype) ([]float64, error) {
	if err := Check(dt); err != nil {
		return nil, err
	}
	size := int(dt.Size)
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d byte elements", len(raw), size)
	}
	bo := order(dt)
	out := make([]float64, len(raw)/size)
	for i := range out {
		out[i] = decode(raw[i*size:], dt, bo)
	}
	return out, nil
}

func decode(b []byte, dt *message.Datatype, bo binary.ByteOrder) float64 {
	if dt.Class == message.ClassFloat {
		if dt.Size == 4 {
			return float64(math.Float32frombits(bo.Uint32(b)))
		}
		return math.Float64frombits(bo.Uint64(b))
	}
	var u uint64
	switch dt.Size {
	case 1:
		u = uint64(b[0])
	case 2:
		u = uint64(bo.Uint16(b))
	case 4:
		u = uint64(bo.Uint32(b))
	default:
		u = bo.Uint64(b)
	}
	if !dt.Signed {
		return float64(u)
	}
	// Sign-extend from the element width.
	shift := 64 - 8*dt.Size
	return float64(int64(u<<shift) >> shift)
}

// Encode writes vals as elements of dt, which must be a float type.
// Integer types are accepted for test fixtures; values are truncated.
func Encode(vals []float64, dt *message.Datatype) ([]byte, error) {
	if err := Check(dt); err != nil {
		return nil, err
	}
	size := int(dt.Size)
	bo := order(dt)
	out := make([]byte, len(vals)*size)
	for i, v := range vals {
		b := out[i*size:]
		switch {
		case dt.Class == message.ClassFloat && size == 4:
			bo.PutUint32(b, math.Float32bits(float32(v)))
		case dt.Class == message.ClassFloat:
			bo.PutUint64(b, math.Float64bits(v))
		case size == 1:
			b[0] = byte(int64(v))
		case size == 2:
			bo.PutUint16(b, uint16(int64(v)))
		case size == 4:
			bo.PutUint32(b, uint32(int64(v)))
		default:
			bo.PutUint64(b, uint64(int64(v)))
		}
	}
	return out, nil
}
