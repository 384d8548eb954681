package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/hnswkit/distance"
)

// SearchResult is an (id, distance) pair used for ground truth and recall.
type SearchResult struct {
	ID       uint64
	Distance float32
}

// RNG is a seeded, goroutine-safe source of test vectors.
type RNG struct {
	mu   sync.Mutex
	src  *rand.Rand
	seed int64
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed} // nolint gosec
}

// Reset rewinds the RNG to its seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.src = rand.New(rand.NewSource(r.seed)) // nolint gosec
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.src.Intn(n)
}

// vectors allocates num vectors of dim floats in one backing slice and lets
// fill populate each one while the lock is held.
func (r *RNG) vectors(num, dim int, fill func(src *rand.Rand, i int, vec []float32)) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	backing := make([]float32, num*dim)
	out := make([][]float32, num)

	for i := range out {
		out[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
		fill(r.src, i, out[i])
	}

	return out
}

// UniformVectors returns num vectors with components in [0, 1).
func (r *RNG) UniformVectors(num, dim int) [][]float32 {
	return r.vectors(num, dim, func(src *rand.Rand, _ int, vec []float32) {
		for j := range vec {
			vec[j] = src.Float32()
		}
	})
}

// UnitVectors returns num vectors drawn uniformly from the unit hypersphere.
func (r *RNG) UnitVectors(num, dim int) [][]float32 {
	return r.vectors(num, dim, func(src *rand.Rand, _ int, vec []float32) {
		for j := range vec {
			vec[j] = float32(src.NormFloat64())
		}

		distance.NormalizeL2InPlace(vec)
	})
}

// ClusteredVectors returns num vectors spread with Gaussian noise around
// clusters random unit centroids, assigned round-robin.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UnitVectors(clusters, dim)

	return r.vectors(num, dim, func(src *rand.Rand, i int, vec []float32) {
		for j, c := range centroids[i%clusters] {
			vec[j] = c + float32(src.NormFloat64())*spread
		}
	})
}

// ExactTopK brute-forces the k nearest dataset entries to query, ascending
// by distance. Entries are identified by their dataset position.
func ExactTopK(query []float32, dataset [][]float32, k int, dist func(a, b []float32) float32) []SearchResult {
	all := make([]SearchResult, len(dataset))
	for i, vec := range dataset {
		all[i] = SearchResult{ID: uint64(i), Distance: dist(query, vec)}
	}

	slices.SortStableFunc(all, func(a, b SearchResult) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return all[:min(k, len(all))]
}

// ComputeRecall returns the fraction of the first min(len) ground-truth ids
// found in approximate. Two empty lists have recall 1.
func ComputeRecall(groundTruth, approximate []SearchResult) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == len(approximate) {
			return 1
		}

		return 0
	}

	k := min(len(approximate), len(groundTruth))

	want := make(map[uint64]struct{}, k)
	for _, r := range groundTruth[:k] {
		want[r.ID] = struct{}{}
	}

	hits := 0

	for _, r := range approximate {
		if _, ok := want[r.ID]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
