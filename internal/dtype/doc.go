// Package dtype converts raw numeric HDF5 elements to and from float64.
package dtype
