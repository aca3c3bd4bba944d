package batch

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	dombatch "github.com/decoplan/furnidex/internal/domain/batch"
	"github.com/decoplan/furnidex/internal/domain/query"
)

// DefaultParallelism bounds concurrent queries within one batch.
const DefaultParallelism = 4

// errMissingQuery is the wire-visible message for a structurally invalid
// batch item. The exact text is a compatibility surface.
var errMissingQuery = errors.New("Missing query field")

// Item is one raw entry of a batch request. Validation happens per item so
// one malformed entry cannot fail the whole batch.
type Item struct {
	Query   string
	Count   int
	Filters map[string]string
}

// Service fans independent queries out through the retrieval engine,
// isolating per-query failures.
type Service struct {
	retriever   Retriever
	parallelism int
}

// New creates a batch service.
func New(retriever Retriever) *Service {
	return &Service{retriever: retriever, parallelism: DefaultParallelism}
}

// WithParallelism configures the fan-out width.
func (s *Service) WithParallelism(n int) *Service {
	if n > 0 {
		s.parallelism = n
	}
	return s
}

// Run executes each item independently. The output always has one outcome
// per input item, in input order; a failed item is reported as data and
// never aborts or reorders the rest.
func (s *Service) Run(ctx context.Context, items []Item) []dombatch.Outcome {
	outcomes := make([]dombatch.Outcome, len(items))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			outcomes[i] = s.runOne(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *Service) runOne(ctx context.Context, item Item) dombatch.Outcome {
	if item.Query == "" {
		return dombatch.NewError(item.Query, errMissingQuery)
	}

	q, err := query.New(item.Query, item.Count, item.Filters, nil)
	if err != nil {
		return dombatch.NewError(item.Query, err)
	}

	results, err := s.retriever.Retrieve(ctx, q)
	if err != nil {
		return dombatch.NewError(item.Query, err)
	}
	return dombatch.NewOK(item.Query, results)
}
