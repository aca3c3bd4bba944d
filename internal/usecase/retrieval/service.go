package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/decoplan/furnidex/internal/category"
	"github.com/decoplan/furnidex/internal/domain/query"
	"github.com/decoplan/furnidex/internal/domain/result"
)

// OverfetchFactor is the fixed multiplier applied before coarse category
// filtering. The index cannot express a family of fine-grained types as a
// native predicate, so the engine retrieves extra candidates and
// prefix-filters them. The margin is a heuristic, not adaptive: a shortfall
// after filtering is returned as-is, never backfilled by a re-query.
const OverfetchFactor = 3

// Service is the retrieval engine: it encodes queries, issues index
// queries, and applies the coarse category refilter. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	repo       Repository
	embed      Embedder
	categories *category.Map
}

// New creates a retrieval service.
func New(repo Repository, embed Embedder, categories *category.Map) *Service {
	return &Service{repo: repo, embed: embed, categories: categories}
}

// Retrieve returns at most q.Count() items nearest to the query text, with
// q.Filters() applied natively by the index. The index's ordering is
// preserved; an empty result is a valid outcome, not an error.
func (s *Service) Retrieve(ctx context.Context, q query.Query) ([]result.Retrieved, error) {
	return s.search(ctx, q, q.Count())
}

// RetrieveFiltered applies the coarse category constraint on top of
// Retrieve via overfetch-and-refilter: fetch Count*OverfetchFactor
// candidates, keep those whose furniture_type starts with any pattern
// registered for the requested labels, truncate at Count. Matching is
// case-sensitive exact-prefix; relative order is preserved.
func (s *Service) RetrieveFiltered(ctx context.Context, q query.Query) ([]result.Retrieved, error) {
	if !q.HasCategories() {
		return s.Retrieve(ctx, q)
	}

	candidates, err := s.search(ctx, q, q.Count()*OverfetchFactor)
	if err != nil {
		return nil, err
	}

	patterns := s.categories.Expand(q.Categories())

	kept := make([]result.Retrieved, 0, q.Count())
	for i := range candidates {
		if !matchesAny(candidates[i].Item().FurnitureType, patterns) {
			continue
		}
		kept = append(kept, candidates[i])
		if len(kept) == q.Count() {
			break
		}
	}
	return kept, nil
}

func (s *Service) search(ctx context.Context, q query.Query, topK int) ([]result.Retrieved, error) {
	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.SearchKNN(ctx, emb.Embedding, q.Filters(), topK)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return results, nil
}

func matchesAny(furnitureType string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasPrefix(furnitureType, p) {
			return true
		}
	}
	return false
}
