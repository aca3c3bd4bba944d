package stats

import (
	"context"

	"github.com/decoplan/furnidex/internal/domain"
)

// Reader loads the precomputed catalog aggregates. Implementations return
// zero-value stats when the side-channel is unavailable.
type Reader interface {
	Load(ctx context.Context) domain.CatalogStats
}
