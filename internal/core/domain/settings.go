package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the service.
	AIProviderNone AIProvider = "none"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderNone, AIProviderOllama, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderNone:
		return "Disabled"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// CorpusSettings locates the textbook JSON files.
type CorpusSettings struct {
	// Dir is the directory holding book JSON files.
	Dir string

	// Books lists the book files to load. Empty means every *.json in Dir.
	Books []string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// Timeout bounds a single query embedding.
	Timeout time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
// Gemini is a generation-only provider here.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider == AIProviderOllama
}

// LLMSettings holds text generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (Ollama, or a Gemini-compatible proxy).
	BaseURL string

	// APIKey is the API key (Gemini).
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration

	// MaxRetries is the number of retries for transient failures.
	MaxRetries int
}

// IsConfigured returns true if a generation provider is selected.
// A missing API key is reported by the provider at call time.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider == AIProviderOllama || l.Provider == AIProviderGemini
}

// LimitSettings holds per-user request limits.
type LimitSettings struct {
	// PerMinute is the sustained request rate per user. 0 disables the limit.
	PerMinute int

	// Daily is the number of questions per user per day. 0 disables the quota.
	Daily int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Corpus locates the textbooks.
	Corpus CorpusSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Limits holds per-user request limits.
	Limits LimitSettings
}

// Default values for settings.
const (
	DefaultEmbeddingTimeout = 5 * time.Second
	DefaultLLMTimeout       = 30 * time.Second
	DefaultLLMMaxRetries    = 2
	DefaultPerMinuteLimit   = 10
	DefaultDailyQuota       = 100
)

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings use a local Ollama instance; generation uses Gemini, which
// reports API_KEY_MISSING until a key is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{
			Dir: "books",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			Timeout:  DefaultEmbeddingTimeout,
		},
		LLM: LLMSettings{
			Provider:   AIProviderGemini,
			Model:      DefaultLLMModels()[AIProviderGemini],
			Timeout:    DefaultLLMTimeout,
			MaxRetries: DefaultLLMMaxRetries,
		},
		Limits: LimitSettings{
			PerMinute: DefaultPerMinuteLimit,
			Daily:     DefaultDailyQuota,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderNone,
		AIProviderOllama,
	}
}

// AllLLMProviders returns providers that support text generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderNone,
		AIProviderOllama,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderGemini: "gemini-2.0-flash",
	}
}
