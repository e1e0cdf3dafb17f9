package driven

import "github.com/pathok-dev/pathok/internal/core/domain"

// AIConfigValidator checks provider settings against the live provider before
// they are saved. Nil or disabled settings are valid.
type AIConfigValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
	ValidateLLM(settings *domain.LLMSettings) error
}
