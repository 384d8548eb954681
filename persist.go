package hnswkit

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/hupe1980/hnswkit/metadata"
	"github.com/hupe1980/hnswkit/persistence"
)

// Save writes the engine file to path, then the metadata sidecar to
// path+".metadata". The sidecar is written even when there is no metadata.
//
// The two files are not written atomically as a pair: if the sidecar fails
// the engine file is already in place.
func (idx *Index) Save(path string) (err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordSave(time.Since(start), err)
		idx.logger.LogSave(path, idx.MetadataCount(), err)
	}()

	if idx.closed() {
		return ErrNotInitialized
	}

	if err := guard("save index", func() error { return idx.engine.SaveIndex(path) }); err != nil {
		return err
	}

	return guard("save metadata", func() error {
		return persistence.SaveToFile(idx.fileSystem, metadata.SidecarPath(path), func(w io.Writer) error {
			return metadata.Encode(w, idx.metadata)
		})
	})
}

// Load replaces the engine state with the file at path, using the index's
// space and newCapacity, then merges the sidecar into the metadata table.
//
// A missing sidecar is not an error. A truncated or corrupt sidecar fails
// the call and leaves the table untouched; the engine state has already been
// replaced at that point.
func (idx *Index) Load(path string, newCapacity int) (err error) {
	start := time.Now()

	defer func() {
		idx.metrics.RecordLoad(time.Since(start), err)
		idx.logger.LogLoad(path, idx.ElementCount(), err)
	}()

	if idx.closed() {
		return ErrNotInitialized
	}

	if err := guard("load index", func() error { return idx.engine.LoadIndex(path, idx.space, newCapacity) }); err != nil {
		return err
	}

	var loaded *metadata.Table

	err = guard("load metadata", func() error {
		return persistence.LoadFromFile(idx.fileSystem, metadata.SidecarPath(path), func(r io.Reader, size int64) error {
			var err error
			loaded, err = metadata.Decode(r, size)

			return err
		})
	})

	if errors.Is(err, os.ErrNotExist) {
		idx.logger.Debug("no metadata sidecar", "path", path)
		return nil
	}

	if err != nil {
		return err
	}

	idx.metadata.Merge(loaded)

	return nil
}
