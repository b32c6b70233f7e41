package message

import "fmt"

// Class is the datatype class stored in the low nibble of the first byte.
type Class uint8

const (
	ClassFixed     Class = 0
	ClassFloat     Class = 1
	ClassTime      Class = 2
	ClassString    Class = 3
	ClassBitfield  Class = 4
	ClassOpaque    Class = 5
	ClassCompound  Class = 6
	ClassReference Class = 7
	ClassEnum      Class = 8
	ClassVarLen    Class = 9
	ClassArray     Class = 10
)

var classNames = [...]string{
	"integer", "float", "time", "string", "bitfield", "opaque",
	"compound", "reference", "enum", "variable-length", "array",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Datatype is message 0x03. Only the numeric classes carry decoded
// properties; other classes keep their raw property bytes.
type Datatype struct {
	Version   uint8
	Class     Class
	Bits      uint32
	Size      uint32
	BigEndian bool
	Signed    bool

	// Numeric layout, for integers and floats.
	BitOffset    uint16
	BitPrecision uint16

	// Float layout.
	ExpLocation  uint8
	ExpSize      uint8
	MantLocation uint8
	MantSize     uint8
	ExpBias      uint32

	Properties []byte
}

func (*Datatype) Type() Type { return TypeDatatype }

// IsNumeric reports whether values of this type convert to float64.
func (m *Datatype) IsNumeric() bool {
	return m.Class == ClassFixed || m.Class == ClassFloat
}

func (m *Datatype) String() string {
	order := "LE"
	if m.BigEndian {
		order = "BE"
	}
	switch m.Class {
	case ClassFixed:
		sign := "u"
		if m.Signed {
			sign = ""
		}
		return fmt.Sprintf("%sint%d %s", sign, m.Size*8, order)
	case ClassFloat:
		return fmt.Sprintf("float%d %s", m.Size*8, order)
	}
	return fmt.Sprintf("%s(%d bytes)", m.Class, m.Size)
}

func parseDatatype(d *decoder) *Datatype {
	head := d.u8()
	m := &Datatype{
		Version: head >> 4,
		Class:   Class(head & 0x0f),
	}
	m.Bits = uint32(d.u8()) | uint32(d.u8())<<8 | uint32(d.u8())<<16
	m.Size = d.u32()

	switch m.Class {
	case ClassFixed:
		m.BigEndian = m.Bits&0x01 != 0
		m.Signed = m.Bits&0x08 != 0
		m.BitOffset = d.u16()
		m.BitPrecision = d.u16()
	case ClassFloat:
		// Bit 6 together with bit 0 selects VAX order, which is not supported.
		if m.Bits&0x40 != 0 {
			d.fail(fmt.Errorf("VAX float byte order is not supported"))
			return m
		}
		m.BigEndian = m.Bits&0x01 != 0
		m.Signed = true
		m.BitOffset = d.u16()
		m.BitPrecision = d.u16()
		m.ExpLocation = d.u8()
		m.ExpSize = d.u8()
		m.MantLocation = d.u8()
		m.MantSize = d.u8()
		m.ExpBias = d.u32()
	default:
		if d.err == nil {
			m.Properties = d.buf[d.off:]
		}
	}
	return m
}

func errUnsupportedVersion(what string, v uint8) error {
	return fmt.Errorf("unsupported %s message version %d", what, v)
}
