// Package driven declares the outbound ports the core depends on: corpus
// sources, model providers, limits and configuration.
package driven

import "context"

// EmbeddingService turns a query into a vector comparable with the corpus
// embeddings. Only queries are embedded at runtime, so the model must be the
// one that produced the corpus. A nil service means keyword-only retrieval.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions is the vector size the model produces, or 0 if unknown.
	Dimensions() int

	ModelName() string

	// Ping makes a cheap request to check the provider is reachable.
	Ping(ctx context.Context) error

	Close() error
}
