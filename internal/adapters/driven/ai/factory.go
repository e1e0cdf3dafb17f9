// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/pathok-dev/pathok/internal/adapters/driven/embedding/ollama"
	"github.com/pathok-dev/pathok/internal/adapters/driven/llm/gemini"
	"github.com/pathok-dev/pathok/internal/adapters/driven/llm/guard"
	ollamallm "github.com/pathok-dev/pathok/internal/adapters/driven/llm/ollama"
	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService // Nil when retrieval is keyword-only.
	Generator        driven.TextGenerator    // Nil when generation is disabled.
	Warnings         []string                // Non-fatal issues that caused fallback.
	KeywordOnly      bool                    // True if embeddings are unavailable.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.Generator != nil {
		r.Generator.Close()
	}
}

// Initialise builds the embedding service and the guarded text generator.
// An unreachable embedding service degrades retrieval to keyword overlap
// rather than failing; generation problems are reported per question.
func Initialise(ctx context.Context, settings *domain.AppSettings, limits []guard.Limit) *InitResult {
	logger.Section("AI Services")
	result := &InitResult{}

	embed, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.EmbeddingService = embed
	result.KeywordOnly = embed == nil
	if embed != nil {
		logger.Info("Embeddings: %s (%s)", settings.Embedding.Provider.Description(), embed.ModelName())
	} else {
		logger.Info("Embeddings disabled, using keyword search")
	}

	gen, err := CreateTextGenerator(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	if gen != nil {
		if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s has no API key; set GEMINI_API_KEY or run 'pathok settings llm'", settings.LLM.Provider))
		}
		result.Generator = guard.New(gen, guard.Config{
			Timeout:    settings.LLM.Timeout,
			MaxRetries: settings.LLM.MaxRetries,
			Limits:     limits,
		})
		logger.Info("Generation: %s (%s)", settings.LLM.Provider.Description(), gen.ModelName())
	}

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns nil without error when embeddings are disabled.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'pathok settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w), falling back to keyword search",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service selected by settings.
// Returns nil if embeddings are disabled.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || settings.Provider == "" || settings.Provider == domain.AIProviderNone {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderGemini:
		return nil, fmt.Errorf("%w: gemini is not used for embeddings, use ollama", domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateTextGenerator creates the unguarded text generator selected by settings.
// Returns nil if generation is disabled.
func CreateTextGenerator(ctx context.Context, settings *domain.LLMSettings) (driven.TextGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewGenerator(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderGemini:
		return gemini.NewGenerator(ctx, gemini.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}
