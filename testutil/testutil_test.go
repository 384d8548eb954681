package testutil

import (
	"testing"

	"github.com/hupe1980/hnswkit/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerators(t *testing.T) {
	rng := NewRNG(4711)

	t.Run("Uniform", func(t *testing.T) {
		v := rng.UniformVectors(8, 32)
		require.Len(t, v, 8)

		for _, vec := range v {
			require.Len(t, vec, 32)

			for _, x := range vec {
				assert.GreaterOrEqual(t, x, float32(0))
				assert.Less(t, x, float32(1))
			}
		}
	})

	t.Run("Unit", func(t *testing.T) {
		for _, vec := range rng.UnitVectors(8, 32) {
			assert.InDelta(t, 1.0, distance.Dot(vec, vec), 1e-5)
		}
	})

	t.Run("Clustered", func(t *testing.T) {
		v := rng.ClusteredVectors(100, 32, 5, 0.01)
		require.Len(t, v, 100)

		// Round-robin assignment puts i and i+5 around the same centroid.
		assert.Less(t, distance.SquaredL2(v[0], v[5]), distance.SquaredL2(v[0], v[1]))
	})

	t.Run("NoAliasing", func(t *testing.T) {
		v := rng.UniformVectors(2, 3)
		v[0] = append(v[0], 9)
		assert.NotEqual(t, float32(9), v[1][0])
	})
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformVectors(1, 10)
	n1 := rng.Intn(1000)

	rng.Reset()
	v2 := rng.UniformVectors(1, 10)

	assert.Equal(t, v1, v2)
	assert.Equal(t, n1, rng.Intn(1000))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestExactTopK(t *testing.T) {
	dataset := [][]float32{{0, 0}, {3, 0}, {1, 0}, {2, 0}}

	got := ExactTopK([]float32{0, 0}, dataset, 3, distance.SquaredL2)

	require.Len(t, got, 3)
	assert.Equal(t, []uint64{0, 2, 3}, []uint64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, float32(4), got[2].Distance)

	assert.Len(t, ExactTopK([]float32{0, 0}, dataset, 10, distance.SquaredL2), 4)
}

func TestComputeRecall(t *testing.T) {
	truth := []SearchResult{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	assert.Equal(t, 1.0, ComputeRecall(truth, []SearchResult{{ID: 4}, {ID: 3}, {ID: 2}, {ID: 1}}))
	assert.Equal(t, 0.5, ComputeRecall(truth, []SearchResult{{ID: 1}, {ID: 9}, {ID: 2}, {ID: 8}}))
	assert.Equal(t, 1.0, ComputeRecall(truth, []SearchResult{{ID: 1}}), "k follows the shorter list")
	assert.Equal(t, 0.0, ComputeRecall(truth, []SearchResult{{ID: 2}}), "only the top of the truth counts")
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall(truth, nil))
}
