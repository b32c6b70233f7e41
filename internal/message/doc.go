// Package message decodes and encodes the HDF5 object header messages the
// head reader depends on: dataspace, datatype, data layout, filter
// pipeline, links and the group bookkeeping messages. Other message types
// are kept as opaque Unknown values.
package message
