// Package persistence provides the binary building blocks shared by the
// engine index file and the metadata sidecar.
//
// All multi-byte values are little-endian regardless of the host platform,
// so files written on one machine load on any other.
//
// Files are written through [SaveToFile], which writes to a temporary file in
// the same directory and renames it into place once the payload is synced.
// The guarantee is per file: callers that write several related files are
// responsible for ordering them.
package persistence
