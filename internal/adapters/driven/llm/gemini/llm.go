// Package gemini provides a text generation adapter for the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var (
	_ driven.TextGenerator = (*Generator)(nil)
	_ driven.ReadyChecker  = (*Generator)(nil)
)

// Default configuration values.
const (
	DefaultModel       = "gemini-2.0-flash"
	DefaultTimeout     = domain.DefaultLLMTimeout
	DefaultTemperature = float32(0.2)
)

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey authenticates against the Gemini API. When empty every call
	// fails with domain.ErrAPIKeyMissing.
	APIKey string

	// Model is the generation model (default: gemini-2.0-flash).
	Model string

	// BaseURL overrides the API endpoint, for proxies and tests.
	BaseURL string

	// Timeout is the HTTP client timeout (default: 30s).
	Timeout time.Duration

	// Temperature is the sampling temperature (default: 0.2).
	Temperature float32
}

// Generator produces answers with a Gemini model.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGenerator creates a Gemini generator. A missing API key is not an error
// here; it is reported per call so callers can surface it to the user.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}

	g := &Generator{model: cfg.Model, temperature: cfg.Temperature}
	if cfg.APIKey == "" {
		return g, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate produces a completion for prompt. userID is not sent to Gemini.
// Ready returns domain.ErrAPIKeyMissing when no API key was configured.
func (g *Generator) Ready() error {
	if g.client == nil {
		return domain.ErrAPIKeyMissing
	}
	return nil
}

func (g *Generator) Generate(ctx context.Context, prompt, _ string) (string, error) {
	if g.client == nil {
		return "", domain.ErrAPIKeyMissing
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

// ModelName returns the name of the generation model.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping checks the key and model by fetching the model metadata.
func (g *Generator) Ping(ctx context.Context) error {
	if g.client == nil {
		return domain.ErrAPIKeyMissing
	}
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", classify(err))
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

// classify maps Gemini API failures onto domain errors.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		default:
			return fmt.Errorf("gemini: %w", err)
		}
	}

	if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
}

// asAPIError unwraps an API error whether the SDK returned it by value or pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}
