package persistence

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/hupe1980/hnswkit/internal/fs"
)

const bufferSize = 256 * 1024

// BinaryWriter writes fixed-width little-endian values.
type BinaryWriter struct {
	w   io.Writer
	buf [8]byte
}

// NewBinaryWriter creates a new binary writer.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: w}
}

// WriteUint8 writes a single byte.
func (bw *BinaryWriter) WriteUint8(v uint8) error {
	bw.buf[0] = v
	_, err := bw.w.Write(bw.buf[:1])

	return err
}

// WriteUint32 writes a 4-byte value.
func (bw *BinaryWriter) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(bw.buf[:4], v)
	_, err := bw.w.Write(bw.buf[:4])

	return err
}

// WriteUint64 writes an 8-byte value.
func (bw *BinaryWriter) WriteUint64(v uint64) error {
	binary.LittleEndian.PutUint64(bw.buf[:8], v)
	_, err := bw.w.Write(bw.buf[:8])

	return err
}

// WriteFloat32Slice writes each element as its IEEE-754 bit pattern.
func (bw *BinaryWriter) WriteFloat32Slice(vec []float32) error {
	for _, v := range vec {
		if err := bw.WriteUint32(math.Float32bits(v)); err != nil {
			return err
		}
	}

	return nil
}

// WriteUint32Slice writes a uint32 slice without a length prefix.
func (bw *BinaryWriter) WriteUint32Slice(slice []uint32) error {
	for _, v := range slice {
		if err := bw.WriteUint32(v); err != nil {
			return err
		}
	}

	return nil
}

// WriteBytes writes raw bytes without a length prefix.
func (bw *BinaryWriter) WriteBytes(p []byte) error {
	_, err := bw.w.Write(p)
	return err
}

// BinaryReader reads fixed-width little-endian values.
//
// Short reads surface as io.ErrUnexpectedEOF; a clean end of input before
// the first byte of a value surfaces as io.EOF.
type BinaryReader struct {
	r   io.Reader
	buf [8]byte
}

// NewBinaryReader creates a new binary reader.
func NewBinaryReader(r io.Reader) *BinaryReader {
	return &BinaryReader{r: r}
}

// ReadUint8 reads a single byte.
func (br *BinaryReader) ReadUint8() (uint8, error) {
	if _, err := io.ReadFull(br.r, br.buf[:1]); err != nil {
		return 0, err
	}

	return br.buf[0], nil
}

// ReadUint32 reads a 4-byte value.
func (br *BinaryReader) ReadUint32() (uint32, error) {
	if _, err := io.ReadFull(br.r, br.buf[:4]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(br.buf[:4]), nil
}

// ReadUint64 reads an 8-byte value.
func (br *BinaryReader) ReadUint64() (uint64, error) {
	if _, err := io.ReadFull(br.r, br.buf[:8]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(br.buf[:8]), nil
}

// ReadFloat32SliceInto fills vec from the stream.
func (br *BinaryReader) ReadFloat32SliceInto(vec []float32) error {
	for i := range vec {
		v, err := br.ReadUint32()
		if err != nil {
			return noEOF(err, i)
		}

		vec[i] = math.Float32frombits(v)
	}

	return nil
}

// ReadUint32Slice reads count uint32 values.
func (br *BinaryReader) ReadUint32Slice(count int) ([]uint32, error) {
	slice := make([]uint32, count)
	for i := range slice {
		v, err := br.ReadUint32()
		if err != nil {
			return nil, noEOF(err, i)
		}

		slice[i] = v
	}

	return slice, nil
}

// ReadBytes reads exactly n bytes.
func (br *BinaryReader) ReadBytes(n int) ([]byte, error) {
	p := make([]byte, n)
	if _, err := io.ReadFull(br.r, p); err != nil {
		return nil, err
	}

	return p, nil
}

// noEOF turns io.EOF into io.ErrUnexpectedEOF once part of a value was read.
func noEOF(err error, consumed int) error {
	if err == io.EOF && consumed > 0 {
		return io.ErrUnexpectedEOF
	}

	return err
}

// SaveToFile writes filename through a temporary sibling file and renames it
// into place after the data is flushed and synced.
func SaveToFile(fsys fs.FileSystem, filename string, writeFunc func(io.Writer) error) (err error) {
	fsys = fs.OrDefault(fsys)
	tmpName := filename + ".tmp"

	f, err := fsys.OpenFile(tmpName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	closed := false
	defer func() {
		if err != nil {
			if !closed {
				_ = f.Close()
			}
			_ = fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(f, bufferSize)
	if err = writeFunc(buf); err != nil {
		return err
	}

	if err = buf.Flush(); err != nil {
		return err
	}

	if err = f.Sync(); err != nil {
		return err
	}

	closed = true
	if err = f.Close(); err != nil {
		return err
	}

	return fsys.Rename(tmpName, filename)
}

// LoadFromFile opens filename and hands a buffered reader plus the file size
// to readFunc. Open errors are returned unwrapped so callers can test them
// with errors.Is(err, fs.ErrNotExist).
func LoadFromFile(fsys fs.FileSystem, filename string, readFunc func(r io.Reader, size int64) error) error {
	fsys = fs.OrDefault(fsys)

	f, err := fsys.OpenFile(filename, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	return readFunc(bufio.NewReaderSize(f, bufferSize), info.Size())
}
