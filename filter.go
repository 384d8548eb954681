package hnswkit

import (
	"math"
	"strings"

	"github.com/hupe1980/hnswkit/metadata"
)

// Filter decides whether a metadata payload matches.
//
// Match runs inside graph traversal, possibly many times per search, so it
// must be fast and free of side effects.
type Filter interface {
	Match(metadata string) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(metadata string) bool

// Match implements Filter.
func (f FilterFunc) Match(metadata string) bool { return f(metadata) }

// MatchEqual matches payloads equal to value.
func MatchEqual(value string) Filter {
	return FilterFunc(func(s string) bool { return s == value })
}

// MatchPrefix matches payloads starting with prefix.
func MatchPrefix(prefix string) Filter {
	return FilterFunc(func(s string) bool { return strings.HasPrefix(s, prefix) })
}

// MatchAny matches payloads equal to one of values.
func MatchAny(values ...string) Filter {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return FilterFunc(func(s string) bool {
		_, ok := set[s]
		return ok
	})
}

// Not inverts f. Ids without metadata are still rejected by the search.
func Not(f Filter) Filter {
	return FilterFunc(func(s string) bool { return !f.Match(s) })
}

// metadataFilter turns a payload filter into the label predicate the
// engine consults for every candidate.
type metadataFilter struct {
	table  *metadata.Table
	filter Filter
}

func (m metadataFilter) allow(label uint64) bool {
	if label > math.MaxInt {
		return false
	}

	payload, ok := m.table.Get(int(label))
	if !ok {
		return false
	}

	return m.filter.Match(payload)
}

// SetFilter registers the filter used by SearchWithFilter. Nil clears it.
func (idx *Index) SetFilter(f Filter) error {
	if idx.closed() {
		return ErrNotInitialized
	}

	idx.filter = f

	return nil
}

// HasFilter reports whether a filter is registered.
func (idx *Index) HasFilter() bool {
	return !idx.closed() && idx.filter != nil
}
