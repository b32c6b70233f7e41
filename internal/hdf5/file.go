package hdf5

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/object"
	"github.com/zarladar/interactive-hydrograph/internal/superblock"
)

// File is an open HDF5 file.
type File struct {
	path   string
	closer io.Closer
	reader *bin.Reader
	sb     *superblock.Superblock
	root   *Group
	closed bool
}

// Open opens the file at path for reading.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := NewFile(fh)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	f.closer = fh
	return f, nil
}

// NewFile reads an HDF5 image from ra. The caller keeps ownership of ra.
func NewFile(ra io.ReaderAt) (*File, error) {
	sb, err := superblock.Read(ra)
	if err != nil {
		if errors.Is(err, superblock.ErrNotHDF5) {
			return nil, fmt.Errorf("%w: %v", ErrNotHDF5, err)
		}
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	// Addresses are relative to the superblock, which moves when the file
	// carries a user block. A stored base address that disagrees with the
	// superblock's location is ignored, as the reference library does.
	src := ra
	if sb.Location != 0 {
		src = io.NewSectionReader(ra, sb.Location, math.MaxInt64-sb.Location)
	}

	f := &File{reader: bin.NewReader(src, sb.Config()), sb: sb}
	root, err := f.openGroupAt(sb.RootAddress, "/")
	if err != nil {
		return nil, fmt.Errorf("opening root group: %w", err)
	}
	f.root = root
	return f, nil
}

// Close releases the underlying file. It is safe to call twice.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *File) Root() *Group { return f.root }
func (f *File) Path() string { return f.path }

// Superblock exposes the decoded superblock for diagnostics.
func (f *File) Superblock() *superblock.Superblock { return f.sb }

// OpenGroup opens the group at an absolute path.
func (f *File) OpenGroup(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenGroup(path)
}

// OpenDataset opens the dataset at an absolute path.
func (f *File) OpenDataset(path string) (*Dataset, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenDataset(path)
}

func (f *File) openGroupAt(addr uint64, path string) (*Group, error) {
	h, err := object.Read(f.reader, addr)
	if err != nil {
		return nil, err
	}
	g := &Group{file: f, path: path, header: h}
	if !h.IsGroup() && !(path == "/" && f.sb.RootCacheType == 1) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotGroup)
	}
	return g, nil
}
