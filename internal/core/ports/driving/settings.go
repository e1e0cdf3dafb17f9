package driving

import "github.com/pathok-dev/pathok/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCorpus sets the corpus directory and optional book file list.
	SetCorpus(dir string, books []string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, baseURL string) error

	// SetLLMProvider configures the text generation provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLimits configures per-minute and daily generation limits.
	SetLimits(perMinute, daily int) error

	// Validate checks that current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
