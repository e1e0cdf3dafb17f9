package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyCorpusDir       = "corpus.dir"
	KeyCorpusBooks     = "corpus.books"
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedTimeout    = "embedding.timeout_seconds"
	KeyLLMProvider     = "llm.provider"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyLLMAPIKey       = "llm.api_key"
	KeyLLMTimeout      = "llm.timeout_seconds"
	KeyLLMMaxRetries   = "llm.max_retries"
	KeyLimitsPerMinute = "limits.per_minute"
	KeyLimitsDaily     = "limits.daily"
)

const (
	defaultOllamaURL = "http://localhost:11434"
	maxRetriesLimit  = 10
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Dir:   s.getString(KeyCorpusDir, defaults.Corpus.Dir),
			Books: s.configStore.GetStringSlice(KeyCorpusBooks),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(KeyEmbedBaseURL), // Adapter applies its own default
			Timeout:  s.getSeconds(KeyEmbedTimeout, defaults.Embedding.Timeout),
		},
		LLM: domain.LLMSettings{
			Provider:   s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:      s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:    s.configStore.GetString(KeyLLMBaseURL),
			APIKey:     s.configStore.GetString(KeyLLMAPIKey),
			Timeout:    s.getSeconds(KeyLLMTimeout, defaults.LLM.Timeout),
			MaxRetries: s.getInt(KeyLLMMaxRetries, defaults.LLM.MaxRetries),
		},
		Limits: domain.LimitSettings{
			PerMinute: s.getInt(KeyLimitsPerMinute, defaults.Limits.PerMinute),
			Daily:     s.getInt(KeyLimitsDaily, defaults.Limits.Daily),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyCorpusDir, settings.Corpus.Dir},
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedTimeout, int(settings.Embedding.Timeout / time.Second)},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{KeyLLMMaxRetries, settings.LLM.MaxRetries},
		{KeyLimitsPerMinute, settings.Limits.PerMinute},
		{KeyLimitsDaily, settings.Limits.Daily},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Optional keys are removed rather than written empty
	if len(settings.Corpus.Books) > 0 {
		if err := s.configStore.Set(KeyCorpusBooks, settings.Corpus.Books); err != nil {
			return fmt.Errorf("save %s: %w", KeyCorpusBooks, err)
		}
	} else if err := s.configStore.Delete(KeyCorpusBooks); err != nil {
		return fmt.Errorf("clear %s: %w", KeyCorpusBooks, err)
	}

	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}

	return nil
}

// SetCorpus sets the corpus directory and book list.
func (s *SettingsService) SetCorpus(dir string, books []string) error {
	if dir == "" {
		return fmt.Errorf("%w: corpus directory is required", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Corpus.Dir = dir
	settings.Corpus.Books = books

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, baseURL string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrUnsupportedType, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	switch {
	case baseURL != "":
		settings.Embedding.BaseURL = baseURL
	case provider.IsLocal() && settings.Embedding.BaseURL == "":
		settings.Embedding.BaseURL = defaultOllamaURL
	}

	return s.Save(settings)
}

// SetLLMProvider configures the text generation provider.
// An empty apiKey keeps the stored key; GEMINI_API_KEY may also supply it at startup.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers use their own endpoint
		settings.LLM.BaseURL = ""
	}

	if apiKey != "" {
		settings.LLM.APIKey = apiKey
	}

	return s.Save(settings)
}

// SetLimits configures per-user generation limits. Zero disables a limit.
func (s *SettingsService) SetLimits(perMinute, daily int) error {
	if perMinute < 0 || daily < 0 {
		return fmt.Errorf("%w: limits must not be negative", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Limits.PerMinute = perMinute
	settings.Limits.Daily = daily

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if settings.Corpus.Dir == "" {
		errs = append(errs, errors.New("corpus.dir is empty"))
	}
	if !settings.Embedding.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("invalid embedding provider: %s", settings.Embedding.Provider))
	}
	if !settings.LLM.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("invalid LLM provider: %s", settings.LLM.Provider))
	}
	if settings.LLM.MaxRetries < 0 || settings.LLM.MaxRetries > maxRetriesLimit {
		errs = append(errs, fmt.Errorf("llm.max_retries must be between 0 and %d", maxRetriesLimit))
	}
	if settings.Limits.PerMinute < 0 || settings.Limits.Daily < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats an explicit 0 as a value, since 0 disables limits and retries.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
