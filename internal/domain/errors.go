package domain

import "errors"

var (
	// ErrNotInitialized signals that the retrieval engine or one of its
	// collaborators has not finished loading. Retryable for callers. The
	// message is a wire compatibility surface.
	ErrNotInitialized = errors.New("RAG system not initialized")
	// ErrInvalidRequest signals a missing or malformed request field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals a vector index failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
