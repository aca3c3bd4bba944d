package batch

import (
	"context"

	"github.com/decoplan/furnidex/internal/domain/query"
	"github.com/decoplan/furnidex/internal/domain/result"
)

// Retriever executes a single query through the retrieval pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, q query.Query) ([]result.Retrieved, error)
}
