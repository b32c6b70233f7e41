package hdf5

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/btree"
	"github.com/zarladar/interactive-hydrograph/internal/dtype"
	"github.com/zarladar/interactive-hydrograph/internal/filter"
	"github.com/zarladar/interactive-hydrograph/internal/layout"
	"github.com/zarladar/interactive-hydrograph/internal/message"
	"github.com/zarladar/interactive-hydrograph/internal/object"
	"github.com/zarladar/interactive-hydrograph/internal/superblock"
)

// ErrExists reports a path that is already taken in a Writer.
var ErrExists = errors.New("object already exists")

// Writer builds a new file in memory and writes it on Close. Files use a
// version 3 superblock and version 2 object headers; chunked datasets are
// indexed by a version 1 B-tree.
type Writer struct {
	path   string
	cfg    bin.Config
	root   *pendingGroup
	closed bool
}

type pendingGroup struct {
	groups   map[string]*pendingGroup
	datasets map[string]*pendingDataset
	soft     map[string]string
}

type pendingDataset struct {
	dims []uint64
	data []byte
	opts *datasetOptions
}

func newPendingGroup() *pendingGroup {
	return &pendingGroup{
		groups:   map[string]*pendingGroup{},
		datasets: map[string]*pendingDataset{},
		soft:     map[string]string{},
	}
}

func (g *pendingGroup) taken(name string) bool {
	_, a := g.groups[name]
	_, b := g.datasets[name]
	_, c := g.soft[name]
	return a || b || c
}

// Create starts a file that Close writes to path. An empty path keeps
// the image in memory for Bytes.
func Create(path string, opts ...FileOption) (*Writer, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg := bin.DefaultConfig()
	cfg.OffsetSize, cfg.LengthSize = o.offsetSize, o.lengthSize
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Writer{path: path, cfg: cfg, root: newPendingGroup()}, nil
}

// CreateGroup adds the group at p and any missing parents.
func (w *Writer) CreateGroup(p string) error {
	_, err := w.group(SplitPath(p), true)
	return err
}

func (w *Writer) group(parts []string, create bool) (*pendingGroup, error) {
	if w.closed {
		return nil, ErrClosed
	}
	g := w.root
	for i, name := range parts {
		next, ok := g.groups[name]
		if !ok {
			if !create || g.taken(name) {
				return nil, fmt.Errorf("/%s: %w", strings.Join(parts[:i+1], "/"), ErrNotGroup)
			}
			next = newPendingGroup()
			g.groups[name] = next
		}
		g = next
	}
	return g, nil
}

// CreateDataset adds a dataset of shape dims holding vals in row-major
// order. Parent groups are created as needed.
func (w *Writer) CreateDataset(p string, dims []uint64, vals []float64, opts ...DatasetOption) error {
	o := defaultDatasetOptions()
	for _, opt := range opts {
		opt(o)
	}
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	if n != uint64(len(vals)) {
		return fmt.Errorf("%s: %d values for shape %v", p, len(vals), dims)
	}
	if len(o.filters) > 0 && o.chunks == nil {
		return fmt.Errorf("%s: filters require chunked storage", p)
	}
	if o.chunks != nil && len(o.chunks) != len(dims) {
		return fmt.Errorf("%s: chunk rank %d for dataset rank %d", p, len(o.chunks), len(dims))
	}
	data, err := dtype.Encode(vals, o.datatype)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return w.add(p, func(g *pendingGroup, name string) {
		g.datasets[name] = &pendingDataset{dims: dims, data: data, opts: o}
	})
}

// CreateSoftLink adds a soft link at p pointing to target.
func (w *Writer) CreateSoftLink(p, target string) error {
	return w.add(p, func(g *pendingGroup, name string) { g.soft[name] = target })
}

func (w *Writer) add(p string, put func(*pendingGroup, string)) error {
	parts := SplitPath(p)
	if len(parts) == 0 {
		return fmt.Errorf("%q: %w", p, ErrExists)
	}
	g, err := w.group(parts[:len(parts)-1], true)
	if err != nil {
		return err
	}
	name := parts[len(parts)-1]
	if g.taken(name) {
		return fmt.Errorf("%s: %w", CleanPath(p), ErrExists)
	}
	put(g, name)
	return nil
}

// Bytes encodes the file image.
func (w *Writer) Bytes() ([]byte, error) {
	b := bin.NewBuffer(w.cfg)
	b.Zero(superblock.EncodedSize(w.cfg.OffsetSize))
	root, err := w.encodeGroup(b, w.root)
	if err != nil {
		return nil, err
	}

	sb := &superblock.Superblock{
		OffsetSize:  uint8(w.cfg.OffsetSize),
		LengthSize:  uint8(w.cfg.LengthSize),
		EOFAddress:  uint64(b.Len()),
		RootAddress: root,
	}
	head := bin.NewBuffer(w.cfg)
	sb.Encode(head)
	img := b.Bytes()
	copy(img, head.Bytes())
	return img, nil
}

// Close writes the file. Closing an in-memory Writer only marks it closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	img, err := w.Bytes()
	if err != nil {
		return err
	}
	w.closed = true
	if w.path == "" {
		return nil
	}
	return os.WriteFile(w.path, img, 0o644)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodeGroup writes children first so the group header can link to
// their addresses.
func (w *Writer) encodeGroup(b *bin.Buffer, g *pendingGroup) (uint64, error) {
	links := map[string]*message.Link{}
	for _, name := range sortedKeys(g.groups) {
		addr, err := w.encodeGroup(b, g.groups[name])
		if err != nil {
			return 0, err
		}
		links[name] = &message.Link{Name: name, Address: addr}
	}
	for _, name := range sortedKeys(g.datasets) {
		addr, err := w.encodeDataset(b, g.datasets[name])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		links[name] = &message.Link{Name: name, Address: addr}
	}
	for name, target := range g.soft {
		links[name] = &message.Link{Kind: message.LinkSoft, Name: name, Target: target}
	}

	msgs := []message.Encoder{message.NewLinkInfo(), &message.GroupInfo{}}
	for _, name := range sortedKeys(links) {
		msgs = append(msgs, links[name])
	}
	addr := uint64(b.Len())
	object.Encode(b, msgs)
	return addr, nil
}

func (w *Writer) encodeDataset(b *bin.Buffer, d *pendingDataset) (uint64, error) {
	o := d.opts
	size := int(o.datatype.Size)
	msgs := []message.Encoder{message.NewSimpleDataspace(d.dims...), o.datatype}

	lay := &message.DataLayout{}
	switch {
	case o.compact:
		lay.Class = message.LayoutCompact
		lay.Data = d.data
	case o.chunks != nil:
		fp := &message.FilterPipeline{Version: 2, Filters: o.filters}
		for i, f := range fp.Filters {
			if f.ID == message.FilterShuffle {
				fp.Filters[i].ClientData = []uint32{uint32(size)}
			}
		}
		pipe, err := filter.NewPipeline(fp, size)
		if err != nil {
			return 0, err
		}
		pieces, err := layout.Split(d.data, layout.Dataset{Dims: d.dims, ElemSize: size}, o.chunks, pipe)
		if err != nil {
			return 0, err
		}
		addrs := make([]uint64, len(pieces))
		for i, p := range pieces {
			addrs[i] = uint64(b.Len())
			b.Write(p.Data)
		}
		lay.Class = message.LayoutChunked
		lay.Address = uint64(b.Len())
		lay.ChunkDims = o.chunks
		lay.ElementSize = uint32(size)
		btree.EncodeLeaf(b, layout.Index(pieces, addrs), layout.IndexEnd(d.dims, o.chunks))
		if len(fp.Filters) > 0 {
			msgs = append(msgs, fp)
		}
	default:
		lay.Class = message.LayoutContiguous
		lay.Address = uint64(b.Len())
		lay.Size = uint64(len(d.data))
		b.Write(d.data)
	}
	msgs = append(msgs, lay)

	addr := uint64(b.Len())
	object.Encode(b, msgs)
	return addr, nil
}
