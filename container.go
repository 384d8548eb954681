package hnswkit

import "sync"

// Container serializes every call on a shared Index.
//
// Index itself does no locking; wrap it in a Container when several
// goroutines use the same index. Do runs arbitrary work under the lock.
type Container struct {
	mu  sync.Mutex
	idx *Index
}

// NewContainer wraps idx. The container takes ownership; close it through
// the container.
func NewContainer(idx *Index) *Container {
	return &Container{idx: idx}
}

// Do runs fn with exclusive access to the index.
func (c *Container) Do(fn func(idx *Index) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fn(c.idx)
}

// Add inserts vector under id.
func (c *Container) Add(vector []float32, id int) error {
	return c.Do(func(idx *Index) error { return idx.Add(vector, id) })
}

// AddWithMetadata inserts vector under id and stores payload.
func (c *Container) AddWithMetadata(vector []float32, id int, payload string) error {
	return c.Do(func(idx *Index) error { return idx.AddWithMetadata(vector, id, payload) })
}

// Search returns the k nearest neighbors of query.
func (c *Container) Search(query []float32, k int) (results []Neighbor, err error) {
	err = c.Do(func(idx *Index) error {
		results, err = idx.Search(query, k)
		return err
	})

	return results, err
}

// SearchWithFilter is Search restricted by the registered filter.
func (c *Container) SearchWithFilter(query []float32, k int) (results []Neighbor, err error) {
	err = c.Do(func(idx *Index) error {
		results, err = idx.SearchWithFilter(query, k)
		return err
	})

	return results, err
}

// SetFilter registers f for SearchWithFilter. Nil clears it.
func (c *Container) SetFilter(f Filter) error {
	return c.Do(func(idx *Index) error { return idx.SetFilter(f) })
}

// Metadata returns the payload stored for id.
func (c *Container) Metadata(id int) (payload string, ok bool) {
	_ = c.Do(func(idx *Index) error {
		payload, ok = idx.Metadata(id)
		return nil
	})

	return payload, ok
}

// SetMetadata stores payload for id.
func (c *Container) SetMetadata(id int, payload string) error {
	return c.Do(func(idx *Index) error { return idx.SetMetadata(id, payload) })
}

// RemoveMetadata drops the payload of id.
func (c *Container) RemoveMetadata(id int) error {
	return c.Do(func(idx *Index) error { return idx.RemoveMetadata(id) })
}

// SetEf sets the query-time candidate list size.
func (c *Container) SetEf(ef int) error {
	return c.Do(func(idx *Index) error { return idx.SetEf(ef) })
}

// MarkDeleted hides id from search results.
func (c *Container) MarkDeleted(id int) error {
	return c.Do(func(idx *Index) error { return idx.MarkDeleted(id) })
}

// UnmarkDeleted makes a deleted id searchable again.
func (c *Container) UnmarkDeleted(id int) error {
	return c.Do(func(idx *Index) error { return idx.UnmarkDeleted(id) })
}

// Resize changes the capacity.
func (c *Container) Resize(newCapacity int) error {
	return c.Do(func(idx *Index) error { return idx.Resize(newCapacity) })
}

// Save writes the engine file and its metadata sidecar.
func (c *Container) Save(path string) error {
	return c.Do(func(idx *Index) error { return idx.Save(path) })
}

// Load replaces the engine and metadata from path.
func (c *Container) Load(path string, newCapacity int) error {
	return c.Do(func(idx *Index) error { return idx.Load(path, newCapacity) })
}

// ElementCount returns the number of stored vectors.
func (c *Container) ElementCount() (n int) {
	_ = c.Do(func(idx *Index) error {
		n = idx.ElementCount()
		return nil
	})

	return n
}

// Close releases the wrapped index.
func (c *Container) Close() error {
	return c.Do(func(idx *Index) error { return idx.Close() })
}
