// Package catalog adapts the vector index to the retrieval domain: it
// issues KNN queries and reconstructs FurnitureItem snapshots from the raw
// index fields.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/decoplan/furnidex/internal/db"
	"github.com/decoplan/furnidex/internal/domain"
	"github.com/decoplan/furnidex/internal/domain/result"
)

// returnFields are the metadata fields requested from the index per hit.
var returnFields = []string{
	"name", "furniture_type", "material", "color", "feel",
	"is_accessory", "dimensions", "description",
}

// store is the consumer interface for catalog search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the retrieval usecase's Repository contract.
type Repo struct {
	store     store
	indexName string
	docPrefix string
}

// New creates a catalog repository bound to one index.
func New(s store, indexName, docPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, docPrefix: docPrefix}
}

// SearchKNN retrieves the topK nearest items for the query vector with the
// given exact-match filters applied natively by the index. Results keep the
// index's nearest-first ordering. The relevance score is 1 minus the raw
// cosine distance and is deliberately unclamped: downstream consumers
// depend on the raw range.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, filters map[string]string, topK int,
) ([]result.Retrieved, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            topK,
		Filters:      filters,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn: %w", domain.ErrIndexUnavailable, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	results := make([]result.Retrieved, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		item := itemFromEntry(strings.TrimPrefix(entry.Key, r.docPrefix), entry.Fields)
		results = append(results, result.New(item, 1-entry.Distance))
	}
	return results, nil
}

// itemFromEntry reconstructs an item snapshot, normalizing the
// string-encoded accessory flag and defaulting absent optional fields.
func itemFromEntry(id string, fields map[string]string) domain.FurnitureItem {
	return domain.FurnitureItem{
		ID:            id,
		Name:          fields["name"],
		FurnitureType: fields["furniture_type"],
		Material:      fields["material"],
		Color:         fields["color"],
		Feel:          fields["feel"],
		IsAccessory:   domain.ParseAccessoryFlag(fields["is_accessory"]),
		Dimensions:    orDefault(fields["dimensions"]),
		Description:   fields["description"],
	}
}

func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
