// Package heap reads HDF5 local heaps, which hold the member names of
// old-style groups.
//
// A local heap ("HEAP") has a small header pointing at a data segment of
// null-terminated strings. Symbol table entries refer to names by offset
// into that segment:
//
//	names, err := heap.ReadLocal(r, heapAddr)
//	name, err := names.String(nameOffset)
//
// Soft link targets of old-style groups live in the same heap.
package heap
