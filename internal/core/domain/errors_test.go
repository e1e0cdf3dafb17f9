package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrCorpusUnavailable", ErrCorpusUnavailable},
		{"ErrAPIKeyMissing", ErrAPIKeyMissing},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrQuotaExceeded", ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrAPIKeyMissing_Sentinel(t *testing.T) {
	assert.Equal(t, "API_KEY_MISSING", ErrAPIKeyMissing.Error())
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("gemini: %w", ErrRateLimited)
	assert.True(t, errors.Is(wrapped, ErrRateLimited))
	assert.False(t, errors.Is(wrapped, ErrQuotaExceeded))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"not found", ErrNotFound, "No relevant content"},
		{"api key", ErrAPIKeyMissing, "not configured"},
		{"llm unavailable", ErrLLMUnavailable, "not configured"},
		{"rate limited", fmt.Errorf("guard: %w", ErrRateLimited), "Too many requests"},
		{"quota", ErrQuotaExceeded, "Daily question limit"},
		{"timeout", fmt.Errorf("generate: %w", context.DeadlineExceeded), "timed out"},
		{"corpus", ErrCorpusUnavailable, "could not be loaded"},
		{"other", errors.New("boom"), "something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := UserMessage(tt.err)
			if tt.contains == "" {
				assert.Empty(t, msg)
				return
			}
			assert.Contains(t, msg, tt.contains)
		})
	}
}
