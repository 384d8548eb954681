package main

import (
	"testing"

	"github.com/hupe1980/hnswkit"
	"github.com/hupe1980/hnswkit/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) uintptr {
	t.Helper()

	h := open(2, 10, 16, 200, int(space.Euclidean))
	require.NotZero(t, h)

	t.Cleanup(func() { release(h) })

	return h
}

func TestOpen(t *testing.T) {
	h := openTestIndex(t)

	assert.Equal(t, 2, readCounter(h, (*hnswkit.Index).Dimension))
	assert.Equal(t, 10, readCounter(h, (*hnswkit.Index).MaxElements))
	assert.Equal(t, 16, readCounter(h, (*hnswkit.Index).M))

	assert.Zero(t, open(0, 10, 16, 200, int(space.Euclidean)), "invalid dimension")
	assert.Zero(t, open(2, 10, 16, 200, 42), "unknown space")
}

func TestHandleLifecycle(t *testing.T) {
	h := open(2, 10, 16, 200, int(space.Cosine))
	require.NotZero(t, h)

	_, ok := lookup(h)
	require.True(t, ok)

	require.True(t, release(h))
	assert.False(t, release(h), "double free")

	_, ok = lookup(h)
	assert.False(t, ok)

	assert.Equal(t, int(hnswkit.CodeNotInitialized), run(h, func(*hnswkit.Index) error { return nil }))
	assert.Zero(t, readCounter(h, (*hnswkit.Index).Dimension))
}

func TestZeroHandle(t *testing.T) {
	_, ok := lookup(0)
	assert.False(t, ok)
	assert.False(t, release(0))
	assert.Equal(t, int(hnswkit.CodeNotInitialized), run(0, func(*hnswkit.Index) error { return nil }))
	assert.Zero(t, readCounter(0, (*hnswkit.Index).ElementCount))
}

func TestRunCodes(t *testing.T) {
	h := openTestIndex(t)

	add := func(id int) int {
		return run(h, func(idx *hnswkit.Index) error { return idx.Add([]float32{float32(id), 0}, id) })
	}

	assert.Equal(t, int(hnswkit.CodeOK), add(1))
	assert.Equal(t, int(hnswkit.CodeDuplicateID), add(1))
	assert.Equal(t, int(hnswkit.CodeIDOutOfRange), add(10))
	assert.Equal(t, 1, readCounter(h, (*hnswkit.Index).ElementCount))

	code := run(h, func(*hnswkit.Index) error { panic("boom") })
	assert.Equal(t, int(hnswkit.CodeGeneral), code)

	// The lock is released after a panic.
	assert.Equal(t, int(hnswkit.CodeOK), add(2))
}

func TestSearchInto(t *testing.T) {
	h := openTestIndex(t)

	c, ok := lookup(h)
	require.True(t, ok)

	for id := range 3 {
		require.NoError(t, c.AddWithMetadata([]float32{float32(id), 0}, id, "p"))
	}

	err := c.Do(func(idx *hnswkit.Index) error {
		ids := make([]int32, 5)
		dists := make([]float32, 5)

		n, err := searchInto(idx, []float32{0, 0}, 5, false, ids, dists)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []int32{0, 1, 2}, ids[:n])
		assert.Equal(t, []float32{0, 1, 4}, dists[:n])

		require.NoError(t, idx.SetFilter(hnswkit.MatchEqual("none")))

		n, err = searchInto(idx, []float32{0, 0}, 5, true, ids, dists)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = searchInto(idx, []float32{0, 0}, 5, false, nil, nil)
		assert.ErrorIs(t, err, errShortBuffer)

		_, err = searchInto(idx, []float32{0, 0}, 3, false, make([]int32, 1), make([]float32, 1))
		assert.ErrorIs(t, err, errShortBuffer)

		n, err = searchInto(idx, []float32{0, 0}, 0, false, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = searchInto(idx, []float32{0}, 1, false, ids, dists)

		return err
	})
	assert.Equal(t, hnswkit.CodeDimensionMismatch, hnswkit.CodeOf(err))
}
