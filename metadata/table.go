package metadata

import "github.com/tidwall/btree"

// Table maps identifiers to non-empty payloads.
//
// A Table is not safe for concurrent mutation. Concurrent reads are fine.
type Table struct {
	m btree.Map[int, string]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Get returns the payload stored for id.
func (t *Table) Get(id int) (string, bool) {
	return t.m.Get(id)
}

// Set stores payload under id, overwriting any prior value. An empty
// payload removes the entry.
func (t *Table) Set(id int, payload string) {
	if payload == "" {
		t.m.Delete(id)
		return
	}

	t.m.Set(id, payload)
}

// Delete removes id. Removing an absent id is a no-op.
func (t *Table) Delete(id int) {
	t.m.Delete(id)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.m.Len()
}

// Scan calls fn for every entry in ascending id order until fn returns false.
func (t *Table) Scan(fn func(id int, payload string) bool) {
	t.m.Scan(fn)
}

// Merge copies every entry of other into t, overwriting on conflict.
func (t *Table) Merge(other *Table) {
	other.Scan(func(id int, payload string) bool {
		t.Set(id, payload)
		return true
	})
}
