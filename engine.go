package hnswkit

import (
	"github.com/hupe1980/hnswkit/hnsw"
	"github.com/hupe1980/hnswkit/space"
)

// Neighbor is one search result.
type Neighbor struct {
	ID       int
	Distance float32
}

// Engine is the approximate-nearest-neighbor graph an Index coordinates.
//
// Labels are the non-negative ids accepted by Index, widened to uint64.
// Engines may return errors or panic; Index converts both into *EngineError.
type Engine interface {
	AddPoint(vector []float32, label uint64) error

	// SearchKnn returns up to k neighbors ordered farthest first. allow may
	// be nil; otherwise only labels it accepts may be returned.
	SearchKnn(query []float32, k int, allow func(label uint64) bool) ([]Neighbor, error)

	SetEf(ef int) error
	MarkDelete(label uint64) error
	UnmarkDelete(label uint64) error
	ResizeIndex(maxElements int) error
	SaveIndex(path string) error
	LoadIndex(path string, sp space.Space, maxElements int) error

	HasLabel(label uint64) bool
	IsDeleted(label uint64) (bool, error)
	Vector(label uint64) ([]float32, error)

	M() int
	EfConstruction() int
	MaxElements() int
	CurrentCount() int
	DeletedCount() int

	Close() error
}

// EngineFactory creates the engine for a new Index bound to sp.
type EngineFactory func(sp space.Space, maxElements, m, efConstruction int) (Engine, error)

// hnswEngine adapts the bundled graph to Engine.
type hnswEngine struct {
	*hnsw.HNSW
}

func (e hnswEngine) SearchKnn(query []float32, k int, allow func(label uint64) bool) ([]Neighbor, error) {
	results, err := e.HNSW.SearchKnn(query, k, allow)
	if err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, len(results))
	for i, r := range results {
		neighbors[i] = Neighbor{ID: int(r.Label), Distance: r.Distance}
	}

	return neighbors, nil
}

func defaultEngineFactory(o options) EngineFactory {
	return func(sp space.Space, maxElements, m, efConstruction int) (Engine, error) {
		h, err := hnsw.New(sp, maxElements, m, efConstruction, func(ho *hnsw.Options) {
			ho.Seed = o.seed
			ho.Compression = o.compression
			ho.FileSystem = o.fileSystem
		})
		if err != nil {
			return nil, err
		}

		return hnswEngine{HNSW: h}, nil
	}
}
