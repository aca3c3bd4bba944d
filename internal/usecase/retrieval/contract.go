package retrieval

import (
	"context"

	"github.com/decoplan/furnidex/internal/domain"
	"github.com/decoplan/furnidex/internal/domain/result"
)

// Repository is the vector index contract for retrieval. Implementations
// apply filters natively and return hits in nearest-first order.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, filters map[string]string, topK int) ([]result.Retrieved, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
