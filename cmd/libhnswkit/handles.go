package main

import (
	"errors"
	"runtime/cgo"

	"github.com/hupe1980/hnswkit"
	"github.com/hupe1980/hnswkit/config"
	"github.com/hupe1980/hnswkit/space"
)

var errShortBuffer = errors.New("output buffer missing or too small")

// open creates an index from HNSWKIT_* settings and the given shape and
// returns its handle, or 0 on any failure.
func open(dim, capacity, m, efConstruction, kind int) (h uintptr) {
	defer func() {
		if recover() != nil {
			h = 0
		}
	}()

	cfg, err := config.FromEnv()
	if err != nil {
		return 0
	}

	cfg.Dimension = dim
	cfg.Capacity = capacity
	cfg.M = m
	cfg.EfConstruction = efConstruction
	cfg.Space = space.Kind(kind).String()

	idx, err := cfg.Create()
	if err != nil {
		return 0
	}

	return uintptr(cgo.NewHandle(hnswkit.NewContainer(idx)))
}

// lookup resolves h. Zero, released and foreign handles report false.
func lookup(h uintptr) (c *hnswkit.Container, ok bool) {
	defer func() {
		if recover() != nil {
			c, ok = nil, false
		}
	}()

	if h == 0 {
		return nil, false
	}

	c, ok = cgo.Handle(h).Value().(*hnswkit.Container)

	return c, ok
}

// release closes the index behind h and invalidates the handle. It reports
// false when h was not a live handle.
func release(h uintptr) (ok bool) {
	c, ok := lookup(h)
	if !ok {
		return false
	}

	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	_ = c.Close()
	cgo.Handle(h).Delete()

	return true
}

// run executes fn under the container lock and maps the outcome to a status
// code. Panics inside fn become CodeGeneral.
func run(h uintptr, fn func(idx *hnswkit.Index) error) (code int) {
	defer func() {
		if recover() != nil {
			code = int(hnswkit.CodeGeneral)
		}
	}()

	c, ok := lookup(h)
	if !ok {
		return int(hnswkit.CodeNotInitialized)
	}

	return int(hnswkit.CodeOf(c.Do(fn)))
}

// readCounter returns fn(idx), or 0 when h is not live.
func readCounter(h uintptr, fn func(idx *hnswkit.Index) int) (n int) {
	run(h, func(idx *hnswkit.Index) error {
		n = fn(idx)
		return nil
	})

	return n
}

// searchInto runs a plain or filtered search and copies the results into
// the caller's buffers. It returns the number of results written.
func searchInto(idx *hnswkit.Index, query []float32, k int, filtered bool, ids []int32, distances []float32) (int, error) {
	var (
		results []hnswkit.Neighbor
		err     error
	)

	if filtered {
		results, err = idx.SearchWithFilter(query, k)
	} else {
		results, err = idx.Search(query, k)
	}

	if err != nil {
		return 0, err
	}

	if len(ids) < len(results) || len(distances) < len(results) {
		return 0, errShortBuffer
	}

	for i, r := range results {
		ids[i] = int32(r.ID)
		distances[i] = r.Distance
	}

	return len(results), nil
}
