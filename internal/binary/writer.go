package binary

// Buffer is an append-only encoder for HDF5 metadata. Addresses and lengths
// are written at the widths of its Config, so the same structure encodes
// identically to what Reader expects to decode.
type Buffer struct {
	cfg Config
	buf []byte
}

// NewBuffer returns an empty buffer.
func NewBuffer(cfg Config) *Buffer {
	return &Buffer{cfg: cfg}
}

func (b *Buffer) Bytes() []byte { return b.buf }
func (b *Buffer) Len() int { return len(b.buf) }
func (b *Buffer) Config() Config { return b.cfg }

func (b *Buffer) Write(p []byte) { b.buf = append(b.buf, p...) }

func (b *Buffer) Uint8(v uint8) { b.buf = append(b.buf, v) }

func (b *Buffer) Uint16(v uint16) {
	var tmp [2]byte
	b.cfg.ByteOrder.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) Uint32(v uint32) {
	var tmp [4]byte
	b.cfg.ByteOrder.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) Uint64(v uint64) {
	var tmp [8]byte
	b.cfg.ByteOrder.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// UintN appends the low n bytes of v.
func (b *Buffer) UintN(v uint64, n int) {
	switch n {
	case 1:
		b.Uint8(uint8(v))
	case 2:
		b.Uint16(uint16(v))
	case 4:
		b.Uint32(uint32(v))
	case 8:
		b.Uint64(v)
	default:
		for i := 0; i < n; i++ {
			b.buf = append(b.buf, byte(v>>(8*uint(i))))
		}
	}
}

// Offset appends a file address; Undefined appends the all-ones address.
func (b *Buffer) Offset(v uint64) { b.UintN(v, b.cfg.OffsetSize) }
func (b *Buffer) Undefined() { b.Offset(UndefinedFor(b.cfg.OffsetSize)) }
func (b *Buffer) Length(v uint64) { b.UintN(v, b.cfg.LengthSize) }

// Zero appends n zero bytes.
func (b *Buffer) Zero(n int) {
	for ; n > 0; n-- {
		b.buf = append(b.buf, 0)
	}
}

// PutUint32At overwrites four bytes at off, used to patch checksums.
func (b *Buffer) PutUint32At(off int, v uint32) {
	b.cfg.ByteOrder.PutUint32(b.buf[off:off+4], v)
}
