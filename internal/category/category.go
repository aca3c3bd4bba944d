// Package category maps coarse furniture labels to the fine-grained
// name-prefix patterns used by the catalog. The vector index cannot express
// "any bed-like item" as a native predicate, so retrieval overfetches and
// prefix-matches furniture types against these patterns instead.
package category

import "sort"

// Map relates coarse labels to an ordered set of furniture_type prefixes.
// A Map is immutable after construction and safe for concurrent reads.
type Map struct {
	patterns map[string][]string
}

// NewMap copies the given table into an immutable Map.
func NewMap(patterns map[string][]string) *Map {
	m := make(map[string][]string, len(patterns))
	for label, pats := range patterns {
		cp := make([]string, len(pats))
		copy(cp, pats)
		m[label] = cp
	}
	return &Map{patterns: m}
}

// Default returns the catalog's coarse-to-fine category table. The pattern
// sets follow the naming convention of the furniture catalog: a fine type
// is a prefix-extension of its family name ("Bed frame", "Bunk bed", ...).
func Default() *Map {
	return NewMap(map[string][]string{
		"Bed": {
			"Bed", "Bed frame", "Day-bed", "Bunk bed", "Loft bed",
			"Divan bed", "Ottoman bed", "Stackable bed", "Upholstered bed",
			"Four-poster bed", "Reversible bed", "Extendable bed", "Ext bed",
		},
		"Wardrobe":     {"Wardrobe"},
		"Table":        {"Table"},
		"Dining Table": {"Dining Table"},
		"Coffee Table": {"Coffee Table"},
		"Desk":         {"Desk"},
		"Chair":        {"Chair"},
		"Armchair":     {"Armchair"},
		"Sofa":         {"Sofa"},
		"Bench":        {"Bench"},
		"Stool":        {"Stool"},
		"Bookshelf":    {"Bookshelf", "Bookcase"},
		"Dresser":      {"Dresser"},
		"Cabinet":      {"Cabinet"},
		"Nightstand":   {"Nightstand"},
		"Recliner":     {"Recliner"},
	})
}

// Expand returns the deduplicated prefix patterns registered for the given
// labels, preserving label order. Labels with no registered mapping
// contribute nothing; they are not an error.
func (m *Map) Expand(labels []string) []string {
	var patterns []string
	seen := make(map[string]struct{})
	for _, label := range labels {
		for _, p := range m.patterns[label] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Labels returns the registered coarse labels in sorted order.
func (m *Map) Labels() []string {
	labels := make([]string, 0, len(m.patterns))
	for label := range m.patterns {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
