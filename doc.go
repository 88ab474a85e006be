// Package osmpbf writes the OpenStreetMap PBF (Protocol Buffer
// Binary) file format: a stream of OSM nodes, ways, and relations in,
// a length-prefixed sequence of framed, optionally compressed blobs
// out. It buffers entities into primitive blocks, applies delta and
// packed-varint encodings and the DenseNodes packing optimization,
// manages a per-block string table, and pipelines block serialization
// and compression onto a worker pool while preserving output order.
//
// Reading PBF, geometry construction, and the OSM in-memory object
// model are out of scope; this package consumes
// github.com/paulmach/osm values but does not produce them.
package osmpbf
