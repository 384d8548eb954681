// Package hash provides the checksum used by on-disk formats.
//
// Engine files are summed with CRC32-Castagnoli, which Go computes with
// SSE4.2 or the ARM CRC extension when available.
package hash

import (
	"hash"
	"hash/crc32"
)

// Hash32 is a running 32-bit checksum.
type Hash32 = hash.Hash32

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() Hash32 {
	return crc32.New(castagnoli)
}
