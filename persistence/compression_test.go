package persistence

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("vector-index-body "), 512)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer

			w, err := NewCompressWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != CompressionNone {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewDecompressReader(&buf, c)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestParseCompression(t *testing.T) {
	tests := map[string]Compression{
		"":     CompressionNone,
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZstd,
	}

	for name, want := range tests {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = NewCompressWriter(io.Discard, Compression(9))
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = NewDecompressReader(bytes.NewReader(nil), Compression(9))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
