// Package hnswkit is an embeddable approximate-nearest-neighbor index built
// around a Hierarchical Navigable Small World graph.
//
// An Index adds to the graph engine what an application needs around it:
// a handle with an explicit lifecycle, an id-to-string metadata table, a
// metadata filter fused into graph traversal, a metadata sidecar persisted
// next to the engine file, and failures classified into stable negative
// status codes (see Code and CodeOf).
//
// # Quick Start
//
//	idx, _ := hnswkit.Create(128, 10000, 16, 200, space.Cosine)
//	defer idx.Close()
//
//	_ = idx.AddWithMetadata(vec, 42, "category=shoes")
//	results, _ := idx.Search(query, 10)
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Distance)
//	}
//
// # Filtered Search
//
// A Filter sees the metadata payload of every candidate the engine visits.
// Ids without metadata never match.
//
//	_ = idx.SetFilter(hnswkit.MatchPrefix("category=shoes"))
//	results, _ := idx.SearchWithFilter(query, 10)
//
// # Persistence
//
// Save writes the engine file and a sidecar at path+".metadata". Load reads
// both; a missing sidecar is fine, a corrupt one fails the load.
//
//	_ = idx.Save("./index.bin")
//	_ = other.Load("./index.bin", 20000)
//
// # Concurrency
//
// Index does no locking. Serialize mutating calls yourself or wrap the index
// in a Container. Concurrent searches on the bundled engine are safe as long
// as nothing mutates the index meanwhile; SearchBatch relies on that.
//
// # Errors
//
// Every failure maps to a Code through CodeOf. Engine failures and panics
// surface as *EngineError, which matches ErrGeneral.
package hnswkit
