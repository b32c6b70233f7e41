package hdf5

import (
	"fmt"
	"path"
	"sort"

	"github.com/zarladar/interactive-hydrograph/internal/btree"
	"github.com/zarladar/interactive-hydrograph/internal/heap"
	"github.com/zarladar/interactive-hydrograph/internal/message"
	"github.com/zarladar/interactive-hydrograph/internal/object"
)

// Group is an open HDF5 group.
type Group struct {
	file   *File
	path   string
	header *object.Header
}

// member is one link out of a group. Exactly one of addr, target or
// external describes where it points.
type member struct {
	name     string
	addr     uint64
	target   string
	external bool
}

func (g *Group) Name() string {
	if g.path == "/" {
		return "/"
	}
	return path.Base(g.path)
}

func (g *Group) Path() string { return g.path }

// Members lists the names linked from the group in sorted order.
func (g *Group) Members() ([]string, error) {
	ms, err := g.members()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.name
	}
	sort.Strings(names)
	return names, nil
}

// OpenGroup opens a group by path relative to g, or absolute.
func (g *Group) OpenGroup(rel string) (*Group, error) {
	p := joinPath(g.path, rel)
	addr, err := g.file.locate(p, 0)
	if err != nil {
		return nil, err
	}
	return g.file.openGroupAt(addr, p)
}

// OpenDataset opens a dataset by path relative to g, or absolute.
func (g *Group) OpenDataset(rel string) (*Dataset, error) {
	p := joinPath(g.path, rel)
	addr, err := g.file.locate(p, 0)
	if err != nil {
		return nil, err
	}
	h, err := object.Read(g.file.reader, addr)
	if err != nil {
		return nil, err
	}
	if !h.IsDataset() {
		return nil, fmt.Errorf("%s: %w", p, ErrNotDataset)
	}
	return newDataset(g.file, p, h)
}

// members reads the group's links from whichever storage it uses.
func (g *Group) members() ([]member, error) {
	if st := g.symbolTable(); st != nil {
		return g.symbolMembers(st)
	}
	if li := g.header.LinkInfo(); li != nil && !g.file.reader.IsUndefined(li.FractalHeap) {
		return nil, fmt.Errorf("%s: %w: dense link storage", g.path, ErrUnsupported)
	}
	var out []member
	for _, l := range g.header.Links() {
		m := member{name: l.Name}
		switch l.Kind {
		case message.LinkHard:
			m.addr = l.Address
		case message.LinkSoft:
			m.target = l.Target
		default:
			m.external = true
		}
		out = append(out, m)
	}
	return out, nil
}

// symbolTable returns the old-style group index, falling back to the
// root entry cached in a version 0/1 superblock.
func (g *Group) symbolTable() *message.SymbolTable {
	if st := g.header.SymbolTable(); st != nil {
		return st
	}
	sb := g.file.sb
	if g.path == "/" && sb.RootCacheType == 1 {
		return &message.SymbolTable{BTree: sb.RootBTree, Heap: sb.RootHeap}
	}
	return nil
}

func (g *Group) symbolMembers(st *message.SymbolTable) ([]member, error) {
	names, err := heap.ReadLocal(g.file.reader, st.Heap)
	if err != nil {
		return nil, err
	}
	entries, err := btree.GroupMembers(g.file.reader, st.BTree, names)
	if err != nil {
		return nil, err
	}
	out := make([]member, len(entries))
	for i, e := range entries {
		out[i] = member{name: e.Name, addr: e.Address, target: e.Target}
	}
	return out, nil
}

func (g *Group) child(name string) (member, error) {
	ms, err := g.members()
	if err != nil {
		return member{}, err
	}
	for _, m := range ms {
		if m.name == name {
			return m, nil
		}
	}
	return member{}, fmt.Errorf("%s: %w", joinPath(g.path, name), ErrNotFound)
}

// locate resolves an absolute path to an object header address,
// following soft links.
func (f *File) locate(p string, depth int) (uint64, error) {
	addr := f.sb.RootAddress
	cur := "/"
	for _, name := range SplitPath(p) {
		g, err := f.openGroupAt(addr, cur)
		if err != nil {
			return 0, err
		}
		m, err := g.child(name)
		if err != nil {
			return 0, err
		}
		switch {
		case m.external:
			return 0, fmt.Errorf("%s: %w: external link", joinPath(cur, name), ErrUnsupported)
		case m.target != "":
			if depth >= MaxLinkDepth {
				return 0, fmt.Errorf("%s: %w", p, ErrLinkDepth)
			}
			if addr, err = f.locate(joinPath(cur, m.target), depth+1); err != nil {
				return 0, err
			}
		default:
			addr = m.addr
		}
		cur = joinPath(cur, name)
	}
	return addr, nil
}
