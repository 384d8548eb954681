// Package metadata holds the per-identifier string payloads that travel with
// an index, and the sidecar file format they are persisted in.
//
// The table is an ordered map, so iteration and the encoded sidecar are
// deterministic ascending by identifier. It performs no checks against the
// vector engine: payloads may exist for identifiers that were never inserted
// or that are marked deleted.
//
// # Sidecar format
//
// All integers are little-endian and 8 bytes wide:
//
//	count uint64
//	count times:
//	    id     uint64 (two's complement of the int64 identifier)
//	    length uint64
//	    payload [length]byte
package metadata
