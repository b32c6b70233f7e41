package message

// SpaceKind distinguishes scalar, simple and null dataspaces.
type SpaceKind uint8

const (
	SpaceScalar SpaceKind = 0
	SpaceSimple SpaceKind = 1
	SpaceNull   SpaceKind = 2
)

// Dataspace is message 0x01: the rank and extent of a dataset.
type Dataspace struct {
	Version uint8
	Kind    SpaceKind
	Dims    []uint64
	MaxDims []uint64
}

func (*Dataspace) Type() Type { return TypeDataspace }

// Elements is the number of elements the dataspace selects.
func (m *Dataspace) Elements() uint64 {
	switch m.Kind {
	case SpaceNull:
		return 0
	case SpaceScalar:
		return 1
	}
	n := uint64(1)
	for _, d := range m.Dims {
		n *= d
	}
	return n
}

func parseDataspace(d *decoder) *Dataspace {
	m := &Dataspace{Version: d.u8()}
	rank := int(d.u8())
	flags := d.u8()

	switch m.Version {
	case 1:
		d.skip(5)
		m.Kind = SpaceSimple
		if rank == 0 {
			m.Kind = SpaceScalar
		}
	case 2:
		m.Kind = SpaceKind(d.u8())
	default:
		d.fail(errUnsupportedVersion("dataspace", m.Version))
		return m
	}

	m.Dims = make([]uint64, rank)
	for i := range m.Dims {
		m.Dims[i] = d.length()
	}
	if flags&0x01 != 0 {
		m.MaxDims = make([]uint64, rank)
		for i := range m.MaxDims {
			m.MaxDims[i] = d.length()
		}
	}
	return m
}
