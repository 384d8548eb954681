// Package distance provides the float32 kernels behind the distance spaces.
//
// Kernels delegate to the pure-Go gonum BLAS implementation:
//
//	d := distance.SquaredL2(a, b)
//	p := distance.Dot(a, b)
//	n, ok := distance.NormalizeL2Copy(v)
//
// All kernels assume equal-length inputs; callers validate dimensions.
package distance
