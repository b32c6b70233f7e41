package message

// Filter identifiers registered with the HDF Group.
const (
	FilterDeflate     uint16 = 1
	FilterShuffle     uint16 = 2
	FilterFletcher32  uint16 = 3
	FilterSZIP        uint16 = 4
	FilterNBit        uint16 = 5
	FilterScaleOffset uint16 = 6
	FilterLZ4         uint16 = 32004
	FilterZstd        uint16 = 32015
)

// FilterOptional marks a filter that may be skipped when unavailable.
const FilterOptional uint16 = 0x0001

// FilterSpec is one stage of a filter pipeline.
type FilterSpec struct {
	ID         uint16
	Flags      uint16
	Name       string
	ClientData []uint32
}

// Optional reports whether the filter may be skipped.
func (f FilterSpec) Optional() bool { return f.Flags&FilterOptional != 0 }

// FilterPipeline is message 0x0B. Filters are listed in the order they
// were applied when writing.
type FilterPipeline struct {
	Version uint8
	Filters []FilterSpec
}

func (*FilterPipeline) Type() Type { return TypeFilterPipeline }

func parseFilterPipeline(d *decoder) *FilterPipeline {
	m := &FilterPipeline{Version: d.u8()}
	n := int(d.u8())
	switch m.Version {
	case 1:
		d.skip(6)
	case 2:
	default:
		d.fail(errUnsupportedVersion("filter pipeline", m.Version))
		return m
	}

	for i := 0; i < n && d.err == nil; i++ {
		var f FilterSpec
		f.ID = d.u16()
		nameLen := 0
		if m.Version == 1 || f.ID >= 256 {
			nameLen = int(d.u16())
		}
		f.Flags = d.u16()
		ncd := int(d.u16())
		if nameLen > 0 {
			// Version 1 names are NUL-padded to a multiple of eight and the
			// length field already includes the padding.
			raw := d.take(nameLen)
			for j, c := range raw {
				if c == 0 {
					raw = raw[:j]
					break
				}
			}
			f.Name = string(raw)
		}
		f.ClientData = make([]uint32, ncd)
		for j := range f.ClientData {
			f.ClientData[j] = d.u32()
		}
		if m.Version == 1 && ncd%2 == 1 && len(d.buf)-d.off >= 4 {
			d.skip(4)
		}
		m.Filters = append(m.Filters, f)
	}
	return m
}
