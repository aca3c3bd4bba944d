package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decoplan/furnidex/internal/domain"
)

// Query parameter limits.
const (
	// DefaultCount is the number of results retrieved when the caller does
	// not ask for a specific count.
	DefaultCount   = 15
	MaxCount       = 100
	MaxQueryLength = 4096
)

// allowedFilterFields is the fixed whitelist of metadata fields that may be
// used as exact-match filters. Unknown keys are rejected at construction so
// a misspelled filter cannot silently match nothing.
var allowedFilterFields = map[string]struct{}{
	"furniture_type": {},
	"material":       {},
	"color":          {},
	"feel":           {},
	"is_accessory":   {},
	"room_type":      {},
	"style":          {},
}

// Query is a validated retrieval request.
type Query struct {
	text       string
	count      int
	filters    map[string]string
	categories []string
}

// New validates and normalizes retrieval parameters. Filter keys are
// case-insensitive and must be on the whitelist; count defaults to
// DefaultCount and is capped at MaxCount.
func New(text string, count int, filters map[string]string, categories []string) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidRequest)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	var normalized map[string]string
	if len(filters) > 0 {
		normalized = make(map[string]string, len(filters))
		for k, v := range filters {
			key := strings.ToLower(strings.TrimSpace(k))
			if _, ok := allowedFilterFields[key]; !ok {
				return Query{}, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidRequest, k)
			}
			normalized[key] = v
		}
	}

	return Query{
		text:       text,
		count:      count,
		filters:    normalized,
		categories: categories,
	}, nil
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// Count returns the requested number of results.
func (q *Query) Count() int { return q.count }

// Filters returns the normalized exact-match metadata filters.
func (q *Query) Filters() map[string]string { return q.filters }

// Categories returns the requested coarse category labels.
func (q *Query) Categories() []string { return q.categories }

// HasCategories reports whether coarse category filtering was requested.
func (q *Query) HasCategories() bool { return len(q.categories) > 0 }

// FilterValue renders an arbitrary JSON filter value in the catalog's
// string convention: booleans become "True"/"False", numbers lose their
// trailing ".0" when integral.
func FilterValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return domain.FormatAccessoryFlag(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
