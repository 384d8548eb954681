// Command libhnswkit builds hnswkit as a C shared library.
//
//	go build -buildmode=c-shared -o libhnswkit.so ./cmd/libhnswkit
//
// Indexes are exposed as opaque uintptr_t handles; 0 is never a valid one.
// Functions returning int report 0 or a negative status code (see
// hnswkit.Code). Search functions return the number of results written, or a
// negative code. No Go panic crosses the boundary.
//
// Ambient settings (ef, seed, compression, log level and format) are read
// from HNSWKIT_* environment variables when an index is created.
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef bool (*hnswkit_filter_fn)(const char*);

static inline bool hnswkit_call_filter(hnswkit_filter_fn fn, const char* metadata) {
	return fn(metadata);
}
*/
import "C"

import (
	"unsafe"

	"github.com/hupe1980/hnswkit"
	"github.com/hupe1980/hnswkit/space"
)

func main() {}

// Returned by hnswkit_get_space; never freed.
var spaceNames = map[space.Kind]*C.char{
	space.Euclidean:    C.CString(space.Euclidean.String()),
	space.InnerProduct: C.CString(space.InnerProduct.String()),
	space.Cosine:       C.CString(space.Cosine.String()),
}

// call runs fn on the index behind h and returns its status code.
func call(h C.uintptr_t, fn func(idx *hnswkit.Index) error) C.int {
	return C.int(run(uintptr(h), fn))
}

func floats(p *C.float, n int) []float32 {
	if p == nil || n <= 0 {
		return nil
	}

	return unsafe.Slice((*float32)(unsafe.Pointer(p)), n)
}

// int32s views a C int array; C int is 32 bits on every supported target.
func int32s(p *C.int, n int) []int32 {
	if p == nil || n <= 0 {
		return nil
	}

	return unsafe.Slice((*int32)(unsafe.Pointer(p)), n)
}

//export hnswkit_create
func hnswkit_create(dim, maxElements, m, efConstruction, kind C.int) C.uintptr_t {
	return C.uintptr_t(open(int(dim), int(maxElements), int(m), int(efConstruction), int(kind)))
}

//export hnswkit_free
func hnswkit_free(h C.uintptr_t) {
	release(uintptr(h))
}

//export hnswkit_add_point
func hnswkit_add_point(h C.uintptr_t, vector *C.float, id C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error {
		return idx.Add(floats(vector, idx.Dimension()), int(id))
	})
}

//export hnswkit_add_point_with_metadata
func hnswkit_add_point_with_metadata(h C.uintptr_t, vector *C.float, id C.int, metadata *C.char) C.int {
	return call(h, func(idx *hnswkit.Index) error {
		payload := ""
		if metadata != nil {
			payload = C.GoString(metadata)
		}

		return idx.AddWithMetadata(floats(vector, idx.Dimension()), int(id), payload)
	})
}

func search(h C.uintptr_t, query *C.float, ids *C.int, distances *C.float, k C.int, filtered bool) C.int {
	var found int

	code := call(h, func(idx *hnswkit.Index) (err error) {
		found, err = searchInto(idx, floats(query, idx.Dimension()), int(k), filtered,
			int32s(ids, int(k)), floats(distances, int(k)))

		return err
	})
	if code != 0 {
		return code
	}

	return C.int(found)
}

//export hnswkit_search_knn
func hnswkit_search_knn(h C.uintptr_t, query *C.float, ids *C.int, distances *C.float, k C.int) C.int {
	return search(h, query, ids, distances, k, false)
}

//export hnswkit_search_knn_with_filter
func hnswkit_search_knn_with_filter(h C.uintptr_t, query *C.float, ids *C.int, distances *C.float, k C.int) C.int {
	return search(h, query, ids, distances, k, true)
}

//export hnswkit_set_filter
func hnswkit_set_filter(h C.uintptr_t, fn C.hnswkit_filter_fn) C.int {
	return call(h, func(idx *hnswkit.Index) error {
		if fn == nil {
			return idx.SetFilter(nil)
		}

		return idx.SetFilter(hnswkit.FilterFunc(func(metadata string) bool {
			cs := C.CString(metadata)
			defer C.free(unsafe.Pointer(cs))

			return bool(C.hnswkit_call_filter(fn, cs))
		}))
	})
}

//export hnswkit_set_ef
func hnswkit_set_ef(h C.uintptr_t, ef C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error { return idx.SetEf(int(ef)) })
}

//export hnswkit_save_index
func hnswkit_save_index(h C.uintptr_t, path *C.char) C.int {
	if path == nil {
		return C.int(hnswkit.CodeGeneral)
	}

	p := C.GoString(path)

	return call(h, func(idx *hnswkit.Index) error { return idx.Save(p) })
}

//export hnswkit_load_index
func hnswkit_load_index(h C.uintptr_t, path *C.char, maxElements C.int) C.int {
	if path == nil {
		return C.int(hnswkit.CodeGeneral)
	}

	p := C.GoString(path)

	return call(h, func(idx *hnswkit.Index) error { return idx.Load(p, int(maxElements)) })
}

//export hnswkit_mark_deleted
func hnswkit_mark_deleted(h C.uintptr_t, id C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error { return idx.MarkDeleted(int(id)) })
}

//export hnswkit_unmark_deleted
func hnswkit_unmark_deleted(h C.uintptr_t, id C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error { return idx.UnmarkDeleted(int(id)) })
}

//export hnswkit_resize_index
func hnswkit_resize_index(h C.uintptr_t, newSize C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error { return idx.Resize(int(newSize)) })
}

//export hnswkit_get_metadata
func hnswkit_get_metadata(h C.uintptr_t, id C.int) (out *C.char) {
	call(h, func(idx *hnswkit.Index) error {
		if payload, ok := idx.Metadata(int(id)); ok {
			out = C.CString(payload)
		}

		return nil
	})

	return out
}

//export hnswkit_set_metadata
func hnswkit_set_metadata(h C.uintptr_t, id C.int, metadata *C.char) C.int {
	payload := ""
	if metadata != nil {
		payload = C.GoString(metadata)
	}

	return call(h, func(idx *hnswkit.Index) error { return idx.SetMetadata(int(id), payload) })
}

//export hnswkit_remove_metadata
func hnswkit_remove_metadata(h C.uintptr_t, id C.int) C.int {
	return call(h, func(idx *hnswkit.Index) error { return idx.RemoveMetadata(int(id)) })
}

// hnswkit_free_string releases a string returned by hnswkit_get_metadata.
//
//export hnswkit_free_string
func hnswkit_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

//export hnswkit_get_space
func hnswkit_get_space(h C.uintptr_t) (out *C.char) {
	call(h, func(idx *hnswkit.Index) error {
		if idx.SpaceName() != "" {
			out = spaceNames[idx.SpaceType()]
		}

		return nil
	})

	return out
}

func counter(h C.uintptr_t, fn func(idx *hnswkit.Index) int) C.long {
	return C.long(readCounter(uintptr(h), fn))
}

//export hnswkit_get_dim
func hnswkit_get_dim(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).Dimension)
}

//export hnswkit_get_m
func hnswkit_get_m(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).M)
}

//export hnswkit_get_ef_construction
func hnswkit_get_ef_construction(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).EfConstruction)
}

//export hnswkit_get_max_elements
func hnswkit_get_max_elements(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).MaxElements)
}

//export hnswkit_get_current_count
func hnswkit_get_current_count(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).ElementCount)
}

//export hnswkit_get_deleted_count
func hnswkit_get_deleted_count(h C.uintptr_t) C.long {
	return counter(h, (*hnswkit.Index).DeletedCount)
}
