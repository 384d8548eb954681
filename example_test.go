package hnswkit_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/hnswkit"
	"github.com/hupe1980/hnswkit/persistence"
	"github.com/hupe1980/hnswkit/space"
)

// Example_basic demonstrates insert and search on a Euclidean index.
func Example_basic() {
	idx, err := hnswkit.Create(4, 10, 16, 200, space.Euclidean)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	_ = idx.AddWithMetadata([]float32{0, 0, 0, 0}, 0, "a")
	_ = idx.AddWithMetadata([]float32{1, 1, 1, 1}, 1, "b")

	results, err := idx.Search([]float32{0, 0, 0, 0}, 2)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("id=%d distance=%.1f\n", r.ID, r.Distance)
	}
	// Output:
	// id=0 distance=0.0
	// id=1 distance=4.0
}

// Example_filter demonstrates restricting a search to matching metadata.
func Example_filter() {
	idx, err := hnswkit.Create(2, 100, 16, 200, space.Cosine)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	_ = idx.AddWithMetadata([]float32{1, 0}, 1, "category=shoes")
	_ = idx.AddWithMetadata([]float32{1, 0.1}, 2, "category=hats")
	_ = idx.AddWithMetadata([]float32{0, 1}, 3, "category=shoes")

	_ = idx.SetFilter(hnswkit.MatchEqual("category=hats"))

	results, _ := idx.SearchWithFilter([]float32{1, 0}, 3)
	for _, r := range results {
		payload, _ := idx.Metadata(r.ID)
		fmt.Println(r.ID, payload)
	}
	// Output: 2 category=hats
}

// Example_errorCodes demonstrates mapping failures to status codes.
func Example_errorCodes() {
	idx, err := hnswkit.Create(2, 1, 16, 200, space.Euclidean)
	if err != nil {
		log.Fatal(err)
	}

	_ = idx.Add([]float32{1, 1}, 0)

	fmt.Println(hnswkit.CodeOf(idx.Add([]float32{1, 1}, 0)))
	fmt.Println(hnswkit.CodeOf(idx.Add([]float32{1, 1}, 1)))
	fmt.Println(int(hnswkit.CodeOf(idx.Resize(0))))

	_ = idx.Close()

	fmt.Println(hnswkit.CodeOf(idx.Add([]float32{1, 1}, 0)))
	// Output:
	// DUPLICATE_ID
	// ID_OUT_OF_RANGE
	// -7
	// NOT_INITIALIZED
}

// Example_persistence demonstrates saving an index with its metadata and
// loading it into a fresh handle with more room.
func Example_persistence() {
	dir, err := os.MkdirTemp("", "hnswkit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "index.bin")

	src, err := hnswkit.Create(3, 10, 16, 200, space.Euclidean, hnswkit.WithCompression(persistence.CompressionZstd))
	if err != nil {
		log.Fatal(err)
	}

	_ = src.AddWithMetadata([]float32{1, 2, 3}, 7, "seven")

	if err := src.Save(path); err != nil {
		log.Fatal(err)
	}

	_ = src.Close()

	dst, err := hnswkit.Create(3, 10, 16, 200, space.Euclidean)
	if err != nil {
		log.Fatal(err)
	}
	defer dst.Close()

	if err := dst.Load(path, 1000); err != nil {
		log.Fatal(err)
	}

	payload, _ := dst.Metadata(7)
	fmt.Println(dst.ElementCount(), dst.MaxElements(), payload)
	// Output: 1 1000 seven
}

// Example_metrics demonstrates collecting basic operation counters.
func Example_metrics() {
	metrics := &hnswkit.BasicMetricsCollector{}

	idx, err := hnswkit.Create(2, 10, 16, 200, space.Euclidean, hnswkit.WithMetricsCollector(metrics))
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	_ = idx.Add([]float32{1, 1}, 0)
	_ = idx.Add([]float32{1, 1}, 0)
	_, _ = idx.Search([]float32{1, 1}, 1)

	stats := metrics.GetStats()
	fmt.Printf("inserts=%d errors=%d searches=%d\n", stats.InsertCount, stats.InsertErrors, stats.SearchCount)
	// Output: inserts=2 errors=1 searches=1
}
