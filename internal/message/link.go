package message

import "fmt"

// LinkKind is the link type byte of a link message.
type LinkKind uint8

const (
	LinkHard     LinkKind = 0
	LinkSoft     LinkKind = 1
	LinkExternal LinkKind = 64
)

// Link is message 0x06, one member of a new-style compact group.
type Link struct {
	Kind  LinkKind
	Name  string
	Order uint64

	Address uint64 // hard links
	Target  string // soft links: an absolute or relative path
}

func (*Link) Type() Type { return TypeLink }

func parseLink(d *decoder) *Link {
	if v := d.u8(); v != 1 {
		d.fail(errUnsupportedVersion("link", v))
		return nil
	}
	flags := d.u8()
	m := &Link{}
	if flags&0x08 != 0 {
		m.Kind = LinkKind(d.u8())
	}
	if flags&0x04 != 0 {
		m.Order = d.u64()
	}
	if flags&0x10 != 0 {
		d.skip(1) // name charset
	}
	nameLen := int(d.uintN(1 << (flags & 0x03)))
	m.Name = string(d.take(nameLen))

	switch m.Kind {
	case LinkHard:
		m.Address = d.offset()
	case LinkSoft:
		n := int(d.u16())
		m.Target = string(d.take(n))
	case LinkExternal:
		n := int(d.u16())
		d.skip(n)
	default:
		d.fail(fmt.Errorf("unknown link type %d", m.Kind))
	}
	return m
}

// LinkInfo is message 0x02. A defined FractalHeap means the group keeps its
// links in dense storage rather than as Link messages.
type LinkInfo struct {
	Flags       uint8
	MaxOrder    uint64
	FractalHeap uint64
	NameIndex   uint64
	OrderIndex  uint64
}

func (*LinkInfo) Type() Type { return TypeLinkInfo }

func parseLinkInfo(d *decoder) *LinkInfo {
	if v := d.u8(); v != 0 {
		d.fail(errUnsupportedVersion("link info", v))
		return nil
	}
	m := &LinkInfo{Flags: d.u8()}
	if m.Flags&0x01 != 0 {
		m.MaxOrder = d.u64()
	}
	m.FractalHeap = d.offset()
	m.NameIndex = d.offset()
	if m.Flags&0x02 != 0 {
		m.OrderIndex = d.offset()
	}
	return m
}

// GroupInfo is message 0x0A. The reader only needs to recognise it.
type GroupInfo struct {
	Flags          uint8
	MaxCompact     uint16
	MinDense       uint16
	EstimatedCount uint16
	EstimatedName  uint16
}

func (*GroupInfo) Type() Type { return TypeGroupInfo }

func parseGroupInfo(d *decoder) *GroupInfo {
	if v := d.u8(); v != 0 {
		d.fail(errUnsupportedVersion("group info", v))
		return nil
	}
	m := &GroupInfo{Flags: d.u8()}
	if m.Flags&0x01 != 0 {
		m.MaxCompact = d.u16()
		m.MinDense = d.u16()
	}
	if m.Flags&0x02 != 0 {
		m.EstimatedCount = d.u16()
		m.EstimatedName = d.u16()
	}
	return m
}
