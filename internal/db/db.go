// Package db defines the storage facade over the vector index backend.
// The index itself is owned by the external ingestion pipeline; this
// service only queries it.
package db

import (
	"context"
	"time"
)

// Store is the database facade. Consumers depend on the narrow
// sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	KVReader
	KVWriter
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVReader reads plain values, used for the statistics side-channel and
// the embedding cache.
type KVReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KVWriter writes plain values, used for the embedding cache.
type KVWriter interface {
	Set(ctx context.Context, key string, value []byte) error
}

// Searcher provides KNN search over the furniture index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// KNNQuery is the input for a vector similarity search. Filters are
// exact-match tag predicates combined with AND semantics and applied
// natively by the index before the KNN stage.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Filters      map[string]string
	ReturnFields []string
}

// SearchResult is the output of a search operation. Entries keep the
// index's native nearest-first ordering.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Distance is the raw metric value
// reported by the index; score conversion happens upstream.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
