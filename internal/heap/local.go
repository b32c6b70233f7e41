package heap

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// Local is a decoded local heap data segment.
type Local struct {
	Address uint64
	data    []byte
}

// ReadLocal reads the heap header at addr and loads its data segment.
//
//	"HEAP", version 0, 3 reserved bytes,
//	data segment size (L), free list head offset (L), data segment address (O)
func ReadLocal(r *bin.Reader, addr uint64) (*Local, error) {
	hr := r.At(int64(addr))
	sig, err := hr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("local heap at %d: %w", addr, err)
	}
	if string(sig) != "HEAP" {
		return nil, fmt.Errorf("local heap at %d: bad signature %q", addr, sig)
	}
	if v, err := hr.ReadUint8(); err != nil || v != 0 {
		return nil, fmt.Errorf("local heap at %d: version %d: %v", addr, v, err)
	}
	hr.Skip(3)
	size, err := hr.ReadLength()
	if err != nil {
		return nil, err
	}
	if _, err := hr.ReadLength(); err != nil {
		return nil, err
	}
	dataAddr, err := hr.ReadOffset()
	if err != nil {
		return nil, err
	}
	data, err := r.At(int64(dataAddr)).ReadBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("local heap data at %d: %w", dataAddr, err)
	}
	return &Local{Address: addr, data: data}, nil
}

// String returns the NUL-terminated string starting at off.
func (h *Local) String(off uint64) (string, error) {
	if off >= uint64(len(h.data)) {
		return "", fmt.Errorf("local heap offset %d beyond %d-byte segment", off, len(h.data))
	}
	s := h.data[off:]
	for i, c := range s {
		if c == 0 {
			return string(s[:i]), nil
		}
	}
	return string(s), nil
}
