// Package btree walks the version 1 B-trees HDF5 uses to index old-style
// group members (node type 0) and dataset chunks (node type 1).
package btree
