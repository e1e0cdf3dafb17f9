package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as
	// embeddings of different dimensionality.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the text generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Retrieval falls back to keyword overlap without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCorpusUnavailable indicates no books could be loaded.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrAPIKeyMissing indicates the generation service has no API key.
	// The message is a stable sentinel that callers may match on.
	ErrAPIKeyMissing = errors.New("API_KEY_MISSING")

	// ErrRateLimited indicates the caller exceeded the short-term request rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrQuotaExceeded indicates the caller exhausted their daily allowance.
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)
