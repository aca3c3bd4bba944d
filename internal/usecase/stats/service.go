package stats

import (
	"context"
	"sort"

	"github.com/decoplan/furnidex/internal/domain"
)

// FilterValues are the distinct values callers may filter on.
type FilterValues struct {
	Styles         []string `json:"styles"`
	RoomTypes      []string `json:"room_types"`
	FurnitureTypes []string `json:"furniture_types"`
}

// Service exposes catalog aggregates and derived filter values.
type Service struct {
	reader Reader
}

// New creates a stats service.
func New(reader Reader) *Service {
	return &Service{reader: reader}
}

// Stats returns the raw aggregates from the side-channel.
func (s *Service) Stats(ctx context.Context) domain.CatalogStats {
	return s.reader.Load(ctx)
}

// FilterValues derives the distinct filterable values. Styles fall back to
// the keys of the per-feel counts when the pipeline did not publish an
// explicit list. Slices are always non-nil so the API renders empty arrays.
func (s *Service) FilterValues(ctx context.Context) FilterValues {
	stats := s.reader.Load(ctx)

	styles := stats.Styles
	if len(styles) == 0 {
		styles = sortedKeys(stats.Feels)
	}

	return FilterValues{
		Styles:         nonNil(styles),
		RoomTypes:      nonNil(stats.RoomTypes),
		FurnitureTypes: nonNil(sortedKeys(stats.FurnitureTypes)),
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
