// Package superblock locates and decodes the HDF5 superblock, the file's
// entry point. Versions 0 through 3 are read; the writer emits version 3.
package superblock
