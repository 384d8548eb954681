package hnswkit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/hnswkit/internal/fs"
	"github.com/hupe1980/hnswkit/metadata"
	"github.com/hupe1980/hnswkit/space"
)

// Index binds one engine, its distance space, the metadata table and the
// current filter.
//
// An Index performs no locking. Mutating calls need external mutual
// exclusion; use Container to have it done for you. Concurrent searches
// are safe only when the engine is read-concurrent, which the bundled
// engine is.
type Index struct {
	id        string
	engine    Engine
	space     space.Space
	dimension int
	kind      space.Kind
	filter    Filter
	metadata  *metadata.Table

	fileSystem fs.FileSystem
	logger     *Logger
	metrics    MetricsCollector
}

// Create allocates a space of the given kind and dimension and an engine
// bound to it with room for capacity points.
func Create(dimension, capacity, m, efConstruction int, kind space.Kind, optFns ...Option) (*Index, error) {
	opts := applyOptions(optFns)

	sp, err := space.New(kind, dimension)
	if err != nil {
		return nil, err
	}

	engine, err := opts.engineFactory(sp, capacity, m, efConstruction)
	if err != nil {
		return nil, errors.Join(&EngineError{Op: "create", Err: err}, sp.Close())
	}

	if engine == nil {
		return nil, errors.Join(&EngineError{Op: "create", Err: errors.New("factory returned no engine")}, sp.Close())
	}

	if opts.ef > 0 {
		if err := guard("set ef", func() error { return engine.SetEf(opts.ef) }); err != nil {
			return nil, errors.Join(err, guard("close", engine.Close), sp.Close())
		}
	}

	id := uuid.NewString()

	idx := &Index{
		id:         id,
		engine:     engine,
		space:      sp,
		dimension:  dimension,
		kind:       kind,
		metadata:   metadata.NewTable(),
		fileSystem: opts.fileSystem,
		logger:     opts.logger.WithIndex(id),
		metrics:    opts.metricsCollector,
	}

	idx.logger.Info("index created",
		"space", kind.String(),
		"dimension", dimension,
		"capacity", capacity,
		"m", m,
		"ef_construction", efConstruction,
	)

	return idx, nil
}

// Close releases the engine, then the space. Further calls are no-ops and
// every other operation reports ErrNotInitialized afterwards.
func (idx *Index) Close() error {
	if idx.engine == nil {
		return nil
	}

	err := errors.Join(guard("close", idx.engine.Close), idx.space.Close())

	idx.engine = nil
	idx.space = nil
	idx.filter = nil
	idx.metadata = metadata.NewTable()

	idx.logger.Info("index closed")

	return err
}

func (idx *Index) closed() bool {
	return idx.engine == nil
}

// ID returns the handle ID used to correlate log records.
func (idx *Index) ID() string { return idx.id }

// SpaceType returns the space kind. It reports the zero Kind once closed.
func (idx *Index) SpaceType() space.Kind {
	if idx.closed() {
		return 0
	}

	return idx.kind
}

// SpaceName returns the engine-native space name ("l2", "ip" or "cosine"),
// or "" once closed.
func (idx *Index) SpaceName() string {
	if idx.closed() {
		return ""
	}

	return idx.kind.String()
}

// Dimension returns the vector dimension, or 0 once closed.
func (idx *Index) Dimension() int {
	if idx.closed() {
		return 0
	}

	return idx.dimension
}

// M returns the engine graph degree.
func (idx *Index) M() int { return idx.counter("m", Engine.M) }

// EfConstruction returns the engine construction effort.
func (idx *Index) EfConstruction() int { return idx.counter("ef construction", Engine.EfConstruction) }

// MaxElements returns the engine capacity.
func (idx *Index) MaxElements() int { return idx.counter("max elements", Engine.MaxElements) }

// ElementCount returns the number of inserted points, deleted ones included.
func (idx *Index) ElementCount() int { return idx.counter("element count", Engine.CurrentCount) }

// DeletedCount returns the number of points marked deleted.
func (idx *Index) DeletedCount() int { return idx.counter("deleted count", Engine.DeletedCount) }

// counter reads an engine counter. Accessors never fail: a closed index or
// a failing engine reads as 0, which callers must not take as a real count.
func (idx *Index) counter(op string, fn func(Engine) int) int {
	if idx.closed() {
		return 0
	}

	v, err := guardValue(op, func() int { return fn(idx.engine) })
	if err != nil {
		idx.logger.Warn("accessor failed", "op", op, "error", err)
		return 0
	}

	return v
}

// Vector returns a copy of the vector stored for id. Cosine indexes return
// the normalized vector.
func (idx *Index) Vector(id int) ([]float32, error) {
	if idx.closed() {
		return nil, ErrNotInitialized
	}

	if id < 0 {
		return nil, &EngineError{Op: "vector", Err: fmt.Errorf("negative id %d", id)}
	}

	var vec []float32

	err := guard("vector", func() error {
		var err error
		vec, err = idx.engine.Vector(uint64(id))

		return err
	})

	return vec, err
}

// IsDeleted reports whether id is marked deleted.
func (idx *Index) IsDeleted(id int) (bool, error) {
	if idx.closed() {
		return false, ErrNotInitialized
	}

	if id < 0 {
		return false, &EngineError{Op: "is deleted", Err: fmt.Errorf("negative id %d", id)}
	}

	var deleted bool

	err := guard("is deleted", func() error {
		var err error
		deleted, err = idx.engine.IsDeleted(uint64(id))

		return err
	})

	return deleted, err
}
