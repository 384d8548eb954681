package hnswkit

import (
	"fmt"
	"time"
)

// Add inserts vector under id. See AddWithMetadata.
func (idx *Index) Add(vector []float32, id int) error {
	return idx.AddWithMetadata(vector, id, "")
}

// AddWithMetadata inserts vector under id and stores payload for it.
//
// Preconditions are checked in order and the first failure is returned:
// the index is open, 0 <= id < MaxElements, id is not already known to the
// engine (deleted ids included), and len(vector) equals the dimension. The
// engine insert runs only then. A non-empty payload is stored only after the
// insert succeeded and overwrites any previous payload for id.
func (idx *Index) AddWithMetadata(vector []float32, id int, payload string) (err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordInsert(time.Since(start), err)
		idx.logger.LogInsert(id, len(vector), err)
	}()

	if idx.closed() {
		return ErrNotInitialized
	}

	maxElements, err := guardValue("max elements", idx.engine.MaxElements)
	if err != nil {
		return err
	}

	if id < 0 || id >= maxElements {
		return &IDOutOfRangeError{ID: id, MaxElements: maxElements}
	}

	known, err := guardValue("has label", func() bool { return idx.engine.HasLabel(uint64(id)) })
	if err != nil {
		return err
	}

	if known {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	if len(vector) != idx.dimension {
		return &DimensionMismatchError{Expected: idx.dimension, Actual: len(vector)}
	}

	if err := guard("add point", func() error { return idx.engine.AddPoint(vector, uint64(id)) }); err != nil {
		return err
	}

	if payload != "" {
		idx.metadata.Set(id, payload)
	}

	return nil
}
