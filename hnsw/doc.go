// Package hnsw is the bundled approximate-nearest-neighbor engine.
//
// It implements a Hierarchical Navigable Small World graph addressed by
// caller-chosen uint64 labels with a fixed capacity, logical deletion and an
// optional per-candidate predicate consulted during bottom-layer traversal.
//
// Concurrency: concurrent SearchKnn calls are safe as long as no mutating
// method (AddPoint, MarkDelete, UnmarkDelete, ResizeIndex, SetEf, Load) runs
// at the same time. The engine performs no locking of its own.
package hnsw
