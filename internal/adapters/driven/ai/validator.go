package ai

import (
	"context"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings by building the adapter and pinging it.
// Disabled or nil settings always pass.
type ConfigValidator struct {
	// Timeout bounds each ping. Zero means pingTimeout.
	Timeout time.Duration
}

// NewConfigValidator returns a validator using the default ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{Timeout: pingTimeout}
}

func (v *ConfigValidator) context() (context.Context, context.CancelFunc) {
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := v.context()
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLM pings the configured generation provider. Gemini without a key
// fails with domain.ErrAPIKeyMissing before any request is made.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	ctx, cancel := v.context()
	defer cancel()

	gen, err := CreateTextGenerator(ctx, settings)
	if err != nil || gen == nil {
		return err
	}
	defer gen.Close()
	return gen.Ping(ctx)
}
