// Package stats reads the statistics side-channel the ingestion pipeline
// publishes alongside the index: a JSON document with aggregate counts per
// categorical field.
package stats

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/decoplan/furnidex/internal/db"
	"github.com/decoplan/furnidex/internal/domain"
)

// store is the consumer interface for the stats reader (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo loads catalog statistics from a well-known key.
type Repo struct {
	store  store
	key    string
	logger *zap.Logger
}

// New creates a stats repository.
func New(s store, key string, logger *zap.Logger) *Repo {
	return &Repo{store: s, key: key, logger: logger}
}

// Load reads and decodes the statistics document. An absent key or a store
// failure yields zero-value stats, never an error: the stats surface is
// best-effort by contract.
func (r *Repo) Load(ctx context.Context) domain.CatalogStats {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Failed to load catalog stats", zap.String("key", r.key), zap.Error(err))
		}
		return domain.CatalogStats{}
	}

	var stats domain.CatalogStats
	if err := json.Unmarshal(data, &stats); err != nil {
		r.logger.Warn("Failed to decode catalog stats", zap.String("key", r.key), zap.Error(err))
		return domain.CatalogStats{}
	}
	return stats
}
