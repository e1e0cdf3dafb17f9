package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pathok-dev/pathok/internal/adapters/driven/ai"
	"github.com/pathok-dev/pathok/internal/adapters/driven/config/file"
	corpusfile "github.com/pathok-dev/pathok/internal/adapters/driven/corpus/file"
	"github.com/pathok-dev/pathok/internal/adapters/driven/llm/guard"
	"github.com/pathok-dev/pathok/internal/adapters/driven/ratelimit/memory"
	"github.com/pathok-dev/pathok/internal/adapters/driven/storage/sqlite"
	"github.com/pathok-dev/pathok/internal/adapters/driving/cli"
	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/services"
	"github.com/pathok-dev/pathok/internal/logger"
)

// quotaRetentionDays is how long daily quota rows are kept.
const quotaRetentionDays = 30

// bootstrap wires adapters into services for one CLI invocation.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Startup")

	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	logger.Debug("Config: %s", configStore.Path())

	corpusService := services.NewCorpusService(corpusfile.NewSource(settings.Corpus.Dir, settings.Corpus.Books))
	corpusService.SetWatcher(corpusfile.NewWatcher(settings.Corpus.Dir))

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening quota store: %w", err)
	}
	quota := store.QuotaStore(settings.Limits.Daily)
	if n, err := quota.Prune(ctx, quotaRetentionDays); err != nil {
		logger.Warn("pruning quota rows: %v", err)
	} else if n > 0 {
		logger.Debug("Pruned %d quota rows", n)
	}

	result := &cli.Services{
		Corpus:   corpusService,
		Settings: settingsService,
		Quota:    quota,
	}

	if !opts.NeedsAI {
		result.Search = services.NewSearchService(nil)
		result.KeywordOnly = true
		result.Close = func() { closeStore(store) }
		return result, nil
	}

	limits := []guard.Limit{
		{Limiter: memory.NewLimiter(settings.Limits.PerMinute), Denied: domain.ErrRateLimited},
		{Limiter: quota, Denied: domain.ErrQuotaExceeded},
	}
	aiServices := ai.Initialise(ctx, settings, limits)

	searchService := services.NewSearchService(aiServices.EmbeddingService)
	searchService.SetEmbedTimeout(settings.Embedding.Timeout)

	answerService := services.NewAnswerService(searchService, aiServices.Generator)
	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		logger.Warn("prompt templates unavailable, using built-in: %v", err)
	} else {
		answerService.SetPromptStore(prompts)
	}

	result.Search = searchService
	result.Answer = answerService
	result.KeywordOnly = aiServices.KeywordOnly
	result.Warnings = aiServices.Warnings
	result.Close = func() {
		aiServices.Close()
		closeStore(store)
	}
	return result, nil
}

func closeStore(store *sqlite.Store) {
	if err := store.Close(); err != nil {
		logger.Warn("closing store: %v", err)
	}
}
