package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTable(t *testing.T, tbl *Table) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tbl))

	return buf.Bytes()
}

func TestEncodeLayout(t *testing.T) {
	tbl := NewTable()
	tbl.Set(7, "hi")
	tbl.Set(-1, "x")

	data := encodeTable(t, tbl)

	require.Len(t, data, 8+(16+1)+(16+2))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(data[0:]))

	// Ascending order puts -1 first.
	assert.Equal(t, ^uint64(0), binary.LittleEndian.Uint64(data[8:]))
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(data[16:]))
	assert.Equal(t, "x", string(data[24:25]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[25:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(data[33:]))
	assert.Equal(t, "hi", string(data[41:]))
}

func TestEncodeDecodeEmpty(t *testing.T) {
	data := encodeTable(t, NewTable())
	assert.Len(t, data, 8)

	tbl, err := Decode(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestDecodeRoundTrip(t *testing.T) {
	src := NewTable()
	src.Set(0, "a")
	src.Set(1, "b")
	src.Set(1<<40, "large id")
	src.Set(9, string([]byte{0, 1, 2, 0xff}))

	data := encodeTable(t, src)

	got, err := Decode(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, src.Len(), got.Len())
	src.Scan(func(id int, payload string) bool {
		v, ok := got.Get(id)
		assert.True(t, ok)
		assert.Equal(t, payload, v)

		return true
	})
}

func TestDecodeCorrupt(t *testing.T) {
	tbl := NewTable()
	tbl.Set(1, "hello")
	tbl.Set(2, "world")

	valid := encodeTable(t, tbl)

	inflatedLength := bytes.Clone(valid)
	binary.LittleEndian.PutUint64(inflatedLength[16:], 1<<62)

	inflatedCount := bytes.Clone(valid)
	binary.LittleEndian.PutUint64(inflatedCount[0:], 3)

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"ShortHeader", valid[:4]},
		{"TruncatedRecordHeader", valid[:8+10]},
		{"TruncatedPayload", valid[:len(valid)-1]},
		{"TrailingBytes", append(bytes.Clone(valid), 0)},
		{"InflatedLength", inflatedLength},
		{"InflatedCount", inflatedCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tc.data), int64(len(tc.data)))
			assert.ErrorIs(t, err, ErrCorruptSidecar)
		})
	}
}

func TestDecodeSizeLargerThanStream(t *testing.T) {
	tbl := NewTable()
	tbl.Set(1, "hello")

	data := encodeTable(t, tbl)

	// size claims more bytes than the reader delivers
	_, err := Decode(bytes.NewReader(data[:len(data)-2]), int64(len(data)))
	assert.ErrorIs(t, err, ErrCorruptSidecar)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDecodeReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Decode(failingReader{err: boom}, 64)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCorruptSidecar)
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("write failed")
	}

	w.after--

	return len(p), nil
}

func TestEncodeWriteError(t *testing.T) {
	tbl := NewTable()
	tbl.Set(1, "a")

	assert.Error(t, Encode(&failingWriter{after: 0}, tbl))
	assert.Error(t, Encode(&failingWriter{after: 1}, tbl))
	assert.Error(t, Encode(&failingWriter{after: 2}, tbl))
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/tmp/index.bin.metadata", SidecarPath("/tmp/index.bin"))
}
