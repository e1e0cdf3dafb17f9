package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to built-in defaults.
//
// Files are only created when first accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains built-in default prompts.
// These are used when user files are missing or invalid and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `You are a patient tutor helping a Bangladeshi school student. Answer the question using ONLY the textbook excerpts below.

Rules:
- Reply in the same language as the question (Bangla or English).
- If the excerpts do not contain the answer, say that it was not found in the textbook (পাঠ্যবইয়ে পাওয়া যায়নি).
- Cite the excerpts you used by their number, for example [1].

Textbook excerpts:
{{context}}

Question: {{question}}

Answer:`,
}

// placeholders lists the names each prompt must contain exactly once.
var placeholders = map[string][]string{
	driven.PromptAnswer: {driven.PlaceholderContext, driven.PlaceholderQuestion},
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.pathok/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// A user file missing a placeholder, or repeating one, is ignored in favour of the default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	if err := checkPlaceholders(name, prompt); err != nil {
		logger.Warn("prompt %q: %v, using built-in default", name, err)
		prompt = defaultPrompts[name]
	}

	// Double-check so concurrent loads agree on one value
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// checkPlaceholders requires every named placeholder of the prompt exactly once.
func checkPlaceholders(name, prompt string) error {
	for _, ph := range placeholders[name] {
		if n := strings.Count(prompt, ph); n != 1 {
			return fmt.Errorf("%s appears %d times, want 1", ph, n)
		}
	}
	return nil
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# pathok prompts

This directory contains the prompt used to turn textbook excerpts into an answer.

## Files

- ` + "`answer.txt`" + ` - Grounding instruction sent to the text generator

## Customisation

Edit the file to change how answers are written. Changes take effect on the
next command or after restarting the TUI.

The prompt must contain ` + "`{{context}}`" + ` and ` + "`{{question}}`" + ` exactly once each.
` + "`{{context}}`" + ` receives the numbered excerpts and ` + "`{{question}}`" + ` the question.
All other text, including percent signs, is sent unchanged. A prompt missing a
placeholder, or repeating one, is ignored and the built-in default is used.
`
	return os.WriteFile(path, []byte(content), 0600)
}
