// Package testutil generates deterministic test vectors and brute-force
// ground truth for recall checks. It is meant for tests only.
//
//	rng := testutil.NewRNG(42)
//	data := rng.ClusteredVectors(1000, 64, 10, 0.1)
//	truth := testutil.ExactTopK(data[0], data, 10, distance.SquaredL2)
//	recall := testutil.ComputeRecall(truth, approx)
package testutil
