package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pathok-dev/pathok/internal/core/domain"
	"github.com/pathok-dev/pathok/internal/core/ports/driven"
	"github.com/pathok-dev/pathok/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Extension is the suffix of book files.
const Extension = ".json"

// Source reads books from JSON files in a directory.
type Source struct {
	dir   string
	books []string
}

// NewSource creates a source for dir. books lists the files to load,
// relative to dir; when empty every *.json file in dir is loaded.
func NewSource(dir string, books []string) *Source {
	return &Source{dir: dir, books: books}
}

// Dir returns the corpus directory.
func (s *Source) Dir() string {
	return s.dir
}

// Load reads every configured book in order. Unreadable books are logged and
// skipped; an error is returned only when nothing could be loaded.
func (s *Source) Load(ctx context.Context) ([]domain.Book, error) {
	start := time.Now()
	defer logger.Since("corpus load", start)

	paths, err := s.paths()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no book files in %s", domain.ErrCorpusUnavailable, s.dir)
	}

	books := make([]domain.Book, 0, len(paths))
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		book, err := ReadBook(path)
		if err != nil {
			logger.Warn("Skipping book %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Loaded %q: %d chunks", book.Title(), len(book.Chunks))
		books = append(books, book)
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, errors.Join(errs...))
	}
	return books, nil
}

// paths resolves the configured book list to file paths.
func (s *Source) paths() ([]string, error) {
	if len(s.books) > 0 {
		paths := make([]string, len(s.books))
		for i, name := range s.books {
			if filepath.IsAbs(name) {
				paths[i] = name
			} else {
				paths[i] = filepath.Join(s.dir, name)
			}
		}
		return paths, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isBookFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadBook reads and validates a single book file.
func ReadBook(path string) (domain.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Book{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	var raw bookJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Book{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	book := raw.toDomain(strings.TrimSuffix(filepath.Base(path), Extension))
	if book.TotalChunks != len(book.Chunks) {
		logger.Warn("%s declares %d chunks but holds %d", filepath.Base(path), book.TotalChunks, len(book.Chunks))
	}
	return book, nil
}

func isBookFile(name string) bool {
	return strings.HasSuffix(name, Extension) && !strings.HasPrefix(name, ".")
}

// bookJSON is the on-disk book format.
type bookJSON struct {
	Metadata struct {
		Class   string `json:"class"`
		Subject string `json:"subject"`
		Title   string `json:"title"`
		Source  string `json:"source"`
	} `json:"metadata"`
	TotalPages  int         `json:"totalPages"`
	TotalChunks int         `json:"totalChunks"`
	ProcessedAt string      `json:"processedAt"`
	Chunks      []chunkJSON `json:"chunks"`
}

type chunkJSON struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	ChunkIndex int       `json:"chunkIndex"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	TokenCount int       `json:"tokenCount"`
	Class      string    `json:"class"`
	Subject    string    `json:"subject"`
}

// toDomain converts the file format, using fileID where the file leaves
// identifiers blank.
func (b *bookJSON) toDomain(fileID string) domain.Book {
	book := domain.Book{
		Metadata: domain.BookMetadata{
			Class:   b.Metadata.Class,
			Subject: b.Metadata.Subject,
			Title:   b.Metadata.Title,
			Source:  b.Metadata.Source,
		},
		TotalPages:  b.TotalPages,
		TotalChunks: b.TotalChunks,
		Chunks:      make([]domain.Chunk, len(b.Chunks)),
	}
	if book.Metadata.Source == "" {
		book.Metadata.Source = fileID + Extension
	}

	// Informational only; a malformed timestamp is not worth rejecting the book
	if t, err := time.Parse(time.RFC3339, b.ProcessedAt); err == nil {
		book.ProcessedAt = t
	}

	for i, c := range b.Chunks {
		chunk := domain.Chunk{
			ID:         c.ID,
			BookID:     c.BookID,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			Embedding:  c.Embedding,
			TokenCount: c.TokenCount,
			Class:      c.Class,
			Subject:    c.Subject,
		}
		if chunk.ID == "" {
			chunk.ID = fmt.Sprintf("%s-%d", fileID, i)
		}
		if chunk.BookID == "" {
			chunk.BookID = fileID
		}
		book.Chunks[i] = chunk
	}
	return book
}
