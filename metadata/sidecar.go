package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// SidecarSuffix is appended to the engine file path to form the sidecar path.
const SidecarSuffix = ".metadata"

// ErrCorruptSidecar is returned when a sidecar does not parse exactly.
var ErrCorruptSidecar = errors.New("metadata: corrupt sidecar")

const (
	fieldSize  = 8
	recordHead = 2 * fieldSize
)

// SidecarPath returns the sidecar path for an engine file at path.
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// Encode writes t to w in sidecar format.
func Encode(w io.Writer, t *Table) error {
	var buf [recordHead]byte

	binary.LittleEndian.PutUint64(buf[:fieldSize], uint64(t.Len()))

	if _, err := w.Write(buf[:fieldSize]); err != nil {
		return err
	}

	var err error

	t.Scan(func(id int, payload string) bool {
		binary.LittleEndian.PutUint64(buf[:fieldSize], uint64(int64(id)))
		binary.LittleEndian.PutUint64(buf[fieldSize:], uint64(len(payload)))

		if _, err = w.Write(buf[:]); err != nil {
			return false
		}

		_, err = io.WriteString(w, payload)

		return err == nil
	})

	return err
}

// Decode reads a sidecar of exactly size bytes from r.
//
// Every record boundary is validated against size, and bytes left over after
// the last record are an error. Any violation wraps ErrCorruptSidecar. Read
// errors from r are returned as is.
func Decode(r io.Reader, size int64) (*Table, error) {
	if size < fieldSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptSidecar, size)
	}

	var buf [recordHead]byte

	if _, err := io.ReadFull(r, buf[:fieldSize]); err != nil {
		return nil, corrupt(err)
	}

	count := binary.LittleEndian.Uint64(buf[:fieldSize])
	remaining := size - fieldSize

	if count > uint64(remaining/recordHead) {
		return nil, fmt.Errorf("%w: %d records cannot fit in %d bytes", ErrCorruptSidecar, count, remaining)
	}

	t := NewTable()

	for i := uint64(0); i < count; i++ {
		if remaining < recordHead {
			return nil, fmt.Errorf("%w: record %d header truncated", ErrCorruptSidecar, i)
		}

		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, corrupt(err)
		}

		remaining -= recordHead

		id := int64(binary.LittleEndian.Uint64(buf[:fieldSize]))
		length := binary.LittleEndian.Uint64(buf[fieldSize:])

		if length > uint64(remaining) {
			return nil, fmt.Errorf("%w: record %d claims %d bytes, %d left", ErrCorruptSidecar, i, length, remaining)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, corrupt(err)
		}

		remaining -= int64(length)

		t.Set(int(id), string(payload))
	}

	if remaining != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSidecar, remaining)
	}

	return t, nil
}

func corrupt(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrCorruptSidecar, io.ErrUnexpectedEOF)
	}

	return err
}
