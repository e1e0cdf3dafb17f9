package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/core/ports/driving"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// defaultAnswerPrompt is used when no prompt store is configured.
const defaultAnswerPrompt = `Answer the question using ONLY the textbook excerpts below.
Reply in the same language as the question.
If the excerpts do not contain the answer, say that it was not found in the textbook (পাঠ্যবইয়ে পাওয়া যায়নি).

Textbook excerpts:
{{context}}

Question: {{question}}

Answer:`

// errEmptyGeneration is returned when the generator succeeds with no text.
var errEmptyGeneration = errors.New("text generator returned an empty answer")

// AnswerService composes grounded answers from retrieved chunks.
type AnswerService struct {
	search      driving.SearchService
	generator   driven.TextGenerator
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerService creates a new answer service.
// The generator parameter is optional (can be nil); without it every
// answer fails with domain.ErrLLMUnavailable after retrieval.
func NewAnswerService(search driving.SearchService, generator driven.TextGenerator) *AnswerService {
	return &AnswerService{
		search:    search,
		generator: generator,
		topK:      domain.DefaultAnswerTopK,
	}
}

// SetPromptStore sets the prompt store for the grounding template.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer retrieves the top chunks for question and asks the generator to
// answer from them. Every failure, including a panic, is returned as a value.
func (s *AnswerService) Answer(
	ctx context.Context, question string, books []domain.Book, userID string,
) (answer domain.Answer) {
	logger.Section("Answer")
	logger.Debug("Question: %q, user: %q", question, userID)
	defer logger.Since("answer", time.Now())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("answer pipeline panicked: %v", r)
			answer = domain.FailedAnswer(fmt.Errorf("answer: unexpected failure: %v", r))
		}
	}()

	results, err := s.search.Search(ctx, question, books, s.topK)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return domain.FailedAnswer(err)
	}
	if len(results) == 0 {
		logger.Info("No relevant content found")
		return domain.NotFoundAnswer()
	}

	if s.generator == nil {
		logger.Warn("No text generator configured")
		return domain.FailedAnswer(domain.ErrLLMUnavailable)
	}

	prompt := renderPrompt(s.template(), buildContext(results), question)
	logger.Debug("Prompt: %d characters from %d chunks", len([]rune(prompt)), len(results))

	text, err := s.generator.Generate(ctx, prompt, userID)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return domain.FailedAnswer(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.FailedAnswer(errEmptyGeneration)
	}

	answer = domain.Answer{
		Text:    text,
		Sources: make([]domain.Source, 0, len(results)),
	}
	for i := range results {
		answer.Sources = append(answer.Sources, domain.NewSource(results[i]))
		if results[i].Method == domain.ScoringKeyword {
			answer.KeywordOnly = true
		}
	}

	logger.Info("Answer generated with %d sources (keyword only: %t)", len(answer.Sources), answer.KeywordOnly)
	return answer
}

// template returns the grounding prompt, preferring the prompt store.
func (s *AnswerService) template() string {
	if s.promptStore == nil {
		return defaultAnswerPrompt
	}
	tmpl, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil || tmpl == "" {
		logger.Warn("Loading answer prompt failed, using default: %v", err)
		return defaultAnswerPrompt
	}
	return tmpl
}

// renderPrompt fills the named placeholders in one pass, so placeholder text
// inside the excerpts or the question is never expanded again.
func renderPrompt(tmpl, excerpts, question string) string {
	return strings.NewReplacer(
		driven.PlaceholderContext, excerpts,
		driven.PlaceholderQuestion, question,
	).Replace(tmpl)
}

// buildContext numbers each chunk and labels it with its book title.
func buildContext(results []domain.SearchResult) string {
	var b strings.Builder
	for i := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] (বই: %s)\n%s", i+1, results[i].BookTitle, results[i].Chunk.Text)
	}
	return b.String()
}
