// Package hdf5 is a read-mostly HDF5 facade: it opens a file, resolves
// group paths (old-style symbol tables and compact link messages, with
// soft links) and reads numeric datasets. Writer produces small files for
// tests and tools.
package hdf5

import "errors"

var (
	ErrNotHDF5     = errors.New("not an HDF5 file")
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrNotGroup    = errors.New("object is not a group")
	ErrUnsupported = errors.New("unsupported feature")
	ErrClosed      = errors.New("file is closed")
	ErrLinkDepth   = errors.New("maximum link depth exceeded")
)

// MaxLinkDepth bounds soft link chains during one path resolution.
const MaxLinkDepth = 100
