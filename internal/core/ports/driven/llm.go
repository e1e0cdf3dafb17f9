package driven

import "context"

// TextGenerator produces answer text from a grounding prompt.
// This is an optional service - when nil, only search is available.
//
// Implementations may include:
//   - Google Gemini
//   - Ollama (local models)
type TextGenerator interface {
	// Generate produces a completion for the prompt on behalf of userID.
	// userID identifies the caller for rate limiting; it may be empty.
	// A provider with no credentials returns domain.ErrAPIKeyMissing.
	Generate(ctx context.Context, prompt, userID string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ReadyChecker is implemented by generators that can tell, without a request,
// that every call would fail. Ready returns that error, such as
// domain.ErrAPIKeyMissing, or nil. Callers use it to avoid charging rate
// limits and quotas for calls that cannot succeed.
type ReadyChecker interface {
	Ready() error
}
