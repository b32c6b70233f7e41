package btree

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/heap"
)

const (
	nodeGroup = 0
	nodeChunk = 1
)

// Member is one entry of an old-style group.
type Member struct {
	Name    string
	Address uint64
	// Target is set for soft links, whose value lives in the local heap.
	Target string
}

// node is the common prefix of every v1 B-tree node:
//
//	"TREE", type (1), level (1), entries used (2), left sibling (O), right sibling (O)
type node struct {
	level   uint8
	entries int
}

func readNode(r *bin.Reader, want uint8) (node, error) {
	sig, err := r.ReadBytes(4)
	if err != nil {
		return node{}, err
	}
	if string(sig) != "TREE" {
		return node{}, fmt.Errorf("bad B-tree signature %q", sig)
	}
	typ, _ := r.ReadUint8()
	level, _ := r.ReadUint8()
	n, err := r.ReadUint16()
	if err != nil {
		return node{}, err
	}
	if typ != want {
		return node{}, fmt.Errorf("B-tree node type %d, want %d", typ, want)
	}
	r.Skip(2 * int64(r.OffsetSize()))
	return node{level: level, entries: int(n)}, nil
}

// GroupMembers lists every member reachable from the group B-tree at addr.
// Group node keys are heap offsets and are not needed for a full walk, so
// each entry is read as key then child.
func GroupMembers(r *bin.Reader, addr uint64, names *heap.Local) ([]Member, error) {
	nr := r.At(int64(addr))
	n, err := readNode(nr, nodeGroup)
	if err != nil {
		return nil, fmt.Errorf("group B-tree at %d: %w", addr, err)
	}

	var out []Member
	for i := 0; i < n.entries; i++ {
		if _, err := nr.ReadLength(); err != nil {
			return nil, err
		}
		child, err := nr.ReadOffset()
		if err != nil {
			return nil, err
		}
		var members []Member
		if n.level == 0 {
			members, err = symbolNode(r, child, names)
		} else {
			members, err = GroupMembers(r, child, names)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, members...)
	}
	return out, nil
}

// symbolNode decodes a "SNOD" symbol table node:
//
//	"SNOD", version 1, reserved, symbol count (2), then entries of
//	name offset (O), header address (O), cache type (4), reserved (4), scratch (16)
func symbolNode(r *bin.Reader, addr uint64, names *heap.Local) ([]Member, error) {
	sr := r.At(int64(addr))
	sig, err := sr.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	if string(sig) != "SNOD" {
		return nil, fmt.Errorf("symbol node at %d: bad signature %q", addr, sig)
	}
	if v, _ := sr.ReadUint8(); v != 1 {
		return nil, fmt.Errorf("symbol node at %d: version %d", addr, v)
	}
	sr.Skip(1)
	count, err := sr.ReadUint16()
	if err != nil {
		return nil, err
	}

	out := make([]Member, 0, count)
	for i := 0; i < int(count); i++ {
		nameOff, _ := sr.ReadOffset()
		objAddr, _ := sr.ReadOffset()
		cache, _ := sr.ReadUint32()
		sr.Skip(4)
		scratch, err := sr.ReadBytes(16)
		if err != nil {
			return nil, err
		}
		name, err := names.String(nameOff)
		if err != nil {
			return nil, err
		}
		m := Member{Name: name, Address: objAddr}
		if cache == 2 {
			off := uint64(r.ByteOrder().Uint32(scratch))
			if m.Target, err = names.String(off); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}
	return out, nil
}
