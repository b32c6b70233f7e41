package message

import (
	"errors"
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
)

// Type is a header message type code.
type Type uint16

const (
	TypeNIL            Type = 0x00
	TypeDataspace      Type = 0x01
	TypeLinkInfo       Type = 0x02
	TypeDatatype       Type = 0x03
	TypeFillValue      Type = 0x05
	TypeLink           Type = 0x06
	TypeDataLayout     Type = 0x08
	TypeGroupInfo      Type = 0x0A
	TypeFilterPipeline Type = 0x0B
	TypeAttribute      Type = 0x0C
	TypeContinuation   Type = 0x10
	TypeSymbolTable    Type = 0x11
)

// ErrTruncated is returned when a message body ends before its fields do.
var ErrTruncated = errors.New("message truncated")

// Message is implemented by every decoded header message.
type Message interface {
	Type() Type
}

// Parse decodes a single message body.
func Parse(typ Type, data []byte, cfg bin.Config) (Message, error) {
	d := &decoder{buf: data, cfg: cfg}
	var m Message
	switch typ {
	case TypeDataspace:
		m = parseDataspace(d)
	case TypeDatatype:
		m = parseDatatype(d)
	case TypeDataLayout:
		m = parseLayout(d)
	case TypeFilterPipeline:
		m = parseFilterPipeline(d)
	case TypeLink:
		m = parseLink(d)
	case TypeLinkInfo:
		m = parseLinkInfo(d)
	case TypeGroupInfo:
		m = parseGroupInfo(d)
	case TypeSymbolTable:
		m = &SymbolTable{BTree: d.offset(), Heap: d.offset()}
	case TypeContinuation:
		m = &Continuation{Offset: d.offset(), Length: d.length()}
	default:
		return &Unknown{Code: typ, Data: data}, nil
	}
	if d.err != nil {
		return nil, fmt.Errorf("message %#x: %w", uint16(typ), d.err)
	}
	return m, nil
}

// Unknown preserves a message the reader does not interpret.
type Unknown struct {
	Code Type
	Data []byte
}

func (m *Unknown) Type() Type { return m.Code }

// Continuation points at the next block of header messages.
type Continuation struct {
	Offset uint64
	Length uint64
}

func (*Continuation) Type() Type { return TypeContinuation }

// SymbolTable marks an old-style group: members live in a v1 B-tree whose
// names are stored in a local heap.
type SymbolTable struct {
	BTree uint64
	Heap  uint64
}

func (*SymbolTable) Type() Type { return TypeSymbolTable }

// decoder walks a message body. The first short read sets err and every
// later read returns zero, so parsers check once at the end.
type decoder struct {
	buf []byte
	off int
	cfg bin.Config
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("%w: need %d bytes at %d of %d", ErrTruncated, n, d.off, len(d.buf))
		return nil
	}
	p := d.buf[d.off : d.off+n]
	d.off += n
	return p
}

func (d *decoder) uintN(n int) uint64 {
	p := d.take(n)
	if p == nil {
		return 0
	}
	return bin.DecodeUint(p, n, d.cfg.ByteOrder)
}

func (d *decoder) u8() uint8 { return uint8(d.uintN(1)) }
func (d *decoder) u16() uint16 { return uint16(d.uintN(2)) }
func (d *decoder) u32() uint32 { return uint32(d.uintN(4)) }
func (d *decoder) u64() uint64 { return d.uintN(8) }
func (d *decoder) offset() uint64 { return d.uintN(d.cfg.OffsetSize) }
func (d *decoder) length() uint64 { return d.uintN(d.cfg.LengthSize) }
func (d *decoder) skip(n int) { d.take(n) }

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}
