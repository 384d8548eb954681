package hnswkit

// Metadata returns the payload stored for id. It never creates an entry.
//
// Metadata is keyed independently of the engine: ids need not have a vector,
// and marking an id deleted keeps its payload.
func (idx *Index) Metadata(id int) (string, bool) {
	if idx.closed() {
		return "", false
	}

	return idx.metadata.Get(id)
}

// SetMetadata stores payload for id, overwriting any previous value. An
// empty payload removes the entry. id is not checked against the engine.
func (idx *Index) SetMetadata(id int, payload string) error {
	if idx.closed() {
		return ErrNotInitialized
	}

	idx.metadata.Set(id, payload)

	return nil
}

// RemoveMetadata removes the payload for id, if any.
func (idx *Index) RemoveMetadata(id int) error {
	if idx.closed() {
		return ErrNotInitialized
	}

	idx.metadata.Delete(id)

	return nil
}

// MetadataCount returns the number of stored payloads.
func (idx *Index) MetadataCount() int {
	if idx.closed() {
		return 0
	}

	return idx.metadata.Len()
}
