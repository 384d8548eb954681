package persistence

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/hnswkit/internal/hash"
)

// ChecksumWriter forwards writes and sums the bytes that were written.
// The sum detects accidental corruption only.
type ChecksumWriter struct {
	io.Writer
	h hash.Hash32
}

// NewChecksumWriter returns a writer summing everything written to w.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	h := hash.NewCRC32C()
	return &ChecksumWriter{Writer: io.MultiWriter(w, h), h: h}
}

// Sum returns the CRC32C of the bytes written so far.
func (cw *ChecksumWriter) Sum() uint32 { return cw.h.Sum32() }

// ChecksumReader sums every byte read through it.
type ChecksumReader struct {
	io.Reader
	h hash.Hash32
}

// NewChecksumReader returns a reader summing everything read from r.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	h := hash.NewCRC32C()
	return &ChecksumReader{Reader: io.TeeReader(r, h), h: h}
}

// Sum returns the CRC32C of the bytes read so far.
func (cr *ChecksumReader) Sum() uint32 { return cr.h.Sum32() }

// Verify compares the running sum against expected.
func (cr *ChecksumReader) Verify(expected uint32) error {
	if actual := cr.Sum(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	return nil
}

// ChecksumMismatchError reports a body whose sum differs from its trailer.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: stored %#08x, computed %#08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err wraps a *ChecksumMismatchError.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
