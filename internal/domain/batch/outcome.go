package batch

import "github.com/decoplan/furnidex/internal/domain/result"

// Outcome is the result of processing one query in a batch request.
// A failed query is reported here as data; it never aborts the batch.
type Outcome struct {
	query   string
	results []result.Retrieved
	err     error
}

// NewOK creates a successful outcome.
func NewOK(query string, results []result.Retrieved) Outcome {
	return Outcome{query: query, results: results}
}

// NewError creates a failed outcome.
func NewError(query string, err error) Outcome {
	return Outcome{query: query, err: err}
}

// Query returns the query text as submitted.
func (o Outcome) Query() string { return o.query }

// Results returns the retrieved items (nil on failure).
func (o Outcome) Results() []result.Retrieved { return o.results }

// Err returns the per-query error, if any.
func (o Outcome) Err() error { return o.err }

// OK reports whether the query succeeded.
func (o Outcome) OK() bool { return o.err == nil }
