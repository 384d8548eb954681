package distance

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/blas/gonum"
)

var impl = gonum.Implementation{}

var diffPool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0, 256)
		return &buf
	},
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	if len(a) == 0 {
		return 0
	}

	return impl.Sdot(len(a), a, 1, b, 1)
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float32) float32 {
	n := len(a)
	if n == 0 {
		return 0
	}

	bufPtr, _ := diffPool.Get().(*[]float32)
	defer diffPool.Put(bufPtr)

	if cap(*bufPtr) < n {
		*bufPtr = make([]float32, n)
	}

	diff := (*bufPtr)[:n]
	copy(diff, a)
	impl.Saxpy(n, -1, b, 1, diff, 1)

	return impl.Sdot(n, diff, 1, diff, 1)
}

// InnerProductDistance returns 1 - dot(a, b).
func InnerProductDistance(a, b []float32) float32 {
	return 1 - Dot(a, b)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}

	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}

	impl.Sscal(len(v), float32(1/math.Sqrt(float64(norm2))), v, 1)

	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm; the copy is returned unchanged.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := make([]float32, len(src))
	copy(dst, src)

	ok := NormalizeL2InPlace(dst)

	return dst, ok
}
