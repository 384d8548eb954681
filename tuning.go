package hnswkit

import (
	"fmt"
	"time"
)

// SetEf sets the engine's search-time candidate list size.
func (idx *Index) SetEf(ef int) error {
	if idx.closed() {
		return ErrNotInitialized
	}

	return guard("set ef", func() error { return idx.engine.SetEf(ef) })
}

// MarkDeleted excludes id from future search results. The vector stays in
// the graph and the id stays taken.
func (idx *Index) MarkDeleted(id int) error {
	return idx.setDeleted(id, true)
}

// UnmarkDeleted makes a deleted id searchable again.
func (idx *Index) UnmarkDeleted(id int) error {
	return idx.setDeleted(id, false)
}

func (idx *Index) setDeleted(id int, deleted bool) (err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordDelete(time.Since(start), err)
		idx.logger.LogDelete(id, deleted, err)
	}()

	if idx.closed() {
		return ErrNotInitialized
	}

	op, fn := "unmark delete", idx.engine.UnmarkDelete
	if deleted {
		op, fn = "mark delete", idx.engine.MarkDelete
	}

	if id < 0 {
		return &EngineError{Op: op, Err: fmt.Errorf("negative id %d", id)}
	}

	return guard(op, func() error { return fn(uint64(id)) })
}

// Resize changes the capacity to newCapacity.
//
// It fails with ErrResizeTooSmall before touching the engine when
// newCapacity is below the element count. After the engine resized, the
// element count must be unchanged and the capacity must equal newCapacity;
// otherwise ErrResizeElementCountChanged or ErrResizeCapacityMismatch is
// returned and the engine is left as the resize left it.
func (idx *Index) Resize(newCapacity int) (err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordResize(time.Since(start), err)
		idx.logger.LogResize(newCapacity, err)
	}()

	if idx.closed() {
		return ErrNotInitialized
	}

	before, err := guardValue("element count", idx.engine.CurrentCount)
	if err != nil {
		return err
	}

	if newCapacity < before {
		return fmt.Errorf("%w: %d < %d", ErrResizeTooSmall, newCapacity, before)
	}

	if err := guard("resize", func() error { return idx.engine.ResizeIndex(newCapacity) }); err != nil {
		return err
	}

	after, err := guardValue("element count", idx.engine.CurrentCount)
	if err != nil {
		return err
	}

	if after != before {
		return fmt.Errorf("%w: %d -> %d", ErrResizeElementCountChanged, before, after)
	}

	capacity, err := guardValue("max elements", idx.engine.MaxElements)
	if err != nil {
		return err
	}

	if capacity != newCapacity {
		return fmt.Errorf("%w: requested %d, got %d", ErrResizeCapacityMismatch, newCapacity, capacity)
	}

	return nil
}
