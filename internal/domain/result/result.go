package result

import "github.com/decoplan/furnidex/internal/domain"

// Retrieved is a single retrieval hit: an item snapshot plus its relevance
// score. The score is 1 minus the index's cosine distance and is kept
// unclamped; depending on the metric it may be negative or exceed 1.
type Retrieved struct {
	item  domain.FurnitureItem
	score float64
}

// New creates a retrieval result.
func New(item domain.FurnitureItem, score float64) Retrieved {
	return Retrieved{item: item, score: score}
}

// Item returns the item snapshot.
func (r *Retrieved) Item() domain.FurnitureItem { return r.item }

// Score returns the relevance score.
func (r *Retrieved) Score() float64 { return r.score }
