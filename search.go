package hnswkit

import (
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// Search returns up to k neighbors of query ordered by ascending distance.
// k <= 0 yields no results. Deleted ids are never returned.
func (idx *Index) Search(query []float32, k int) ([]Neighbor, error) {
	return idx.search(query, k, false)
}

// SearchWithFilter is Search restricted to ids whose metadata matches the
// registered filter. Ids without metadata never match. Without a registered
// filter it behaves like Search.
//
// The filter is applied during traversal, not to the final list, so a
// selective filter can still return k results.
func (idx *Index) SearchWithFilter(query []float32, k int) ([]Neighbor, error) {
	return idx.search(query, k, true)
}

func (idx *Index) search(query []float32, k int, filtered bool) (results []Neighbor, err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordSearch(k, time.Since(start), err)
		idx.logger.LogSearch(k, len(results), filtered, err)
	}()

	if idx.closed() {
		return nil, ErrNotInitialized
	}

	if len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Expected: idx.dimension, Actual: len(query)}
	}

	if k <= 0 {
		return nil, nil
	}

	var allow func(uint64) bool
	if filtered && idx.filter != nil {
		allow = metadataFilter{table: idx.metadata, filter: idx.filter}.allow
	}

	err = guard("search", func() error {
		var err error
		results, err = idx.engine.SearchKnn(query, k, allow)

		return err
	})
	if err != nil {
		return nil, err
	}

	// Engines report farthest first.
	slices.Reverse(results)

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// SearchBatch runs one search per query in parallel and returns the results
// in query order. The first failure cancels the remaining queries.
//
// It relies on the engine being read-concurrent and must not overlap with
// mutating calls.
func (idx *Index) SearchBatch(queries [][]float32, k int, filtered bool) ([][]Neighbor, error) {
	if idx.closed() {
		return nil, ErrNotInitialized
	}

	results := make([][]Neighbor, len(queries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, q := range queries {
		g.Go(func() error {
			res, err := idx.search(q, k, filtered)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
