// Package object reads HDF5 object headers (version 1 and the "OHDR"
// version 2 format) into their messages, following continuation blocks,
// and writes version 2 headers.
package object
