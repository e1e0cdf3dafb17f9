package domain

import "time"

// BookMetadata describes where a book came from.
type BookMetadata struct {
	// Class is the school class the book belongs to (e.g. "9").
	Class string

	// Subject is the subject name (e.g. "bangla", "math").
	Subject string

	// Title is the human-readable title used for citations.
	Title string

	// Source is the filename the corpus snapshot was generated from.
	Source string
}

// Book is a textbook snapshot. It owns its chunks and is immutable once loaded.
type Book struct {
	// Metadata holds descriptive information about the book.
	Metadata BookMetadata

	// TotalPages is informational and is not checked against the chunks.
	TotalPages int

	// TotalChunks is informational; loaders warn when it disagrees with len(Chunks).
	TotalChunks int

	// Chunks are the retrievable units of the book in chunk order.
	Chunks []Chunk

	// ProcessedAt is when the snapshot was generated upstream.
	ProcessedAt time.Time
}

// Title returns the display title, falling back to the source filename.
func (b *Book) Title() string {
	if b.Metadata.Title != "" {
		return b.Metadata.Title
	}
	return b.Metadata.Source
}

// EmbeddingDimensions returns the length of the first non-empty chunk embedding,
// or 0 when the book carries no embeddings.
func (b *Book) EmbeddingDimensions() int {
	for i := range b.Chunks {
		if n := len(b.Chunks[i].Embedding); n > 0 {
			return n
		}
	}
	return 0
}

// Chunk is a unit of retrievable text within a book.
type Chunk struct {
	// ID is unique within the owning book.
	ID string

	// BookID identifies the owning book.
	BookID string

	// ChunkIndex is the ordinal position within the book.
	ChunkIndex int

	// Text is the retrievable content.
	Text string

	// Embedding is the precomputed vector; empty when the chunk has none.
	Embedding []float32

	// TokenCount is informational only.
	TokenCount int

	// Class is optional descriptive metadata.
	Class string

	// Subject is optional descriptive metadata.
	Subject string
}

// HasEmbedding reports whether the chunk carries a vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// CorpusStats summarises a loaded corpus.
type CorpusStats struct {
	// Books is the number of loaded books.
	Books int

	// Chunks is the total number of chunks across all books.
	Chunks int

	// EmbeddedChunks is the number of chunks carrying an embedding.
	EmbeddedChunks int

	// Dimensions is the embedding size of the corpus, 0 if none.
	Dimensions int
}

// StatsFor computes summary statistics for a set of books.
func StatsFor(books []Book) CorpusStats {
	stats := CorpusStats{Books: len(books)}
	for i := range books {
		stats.Chunks += len(books[i].Chunks)
		for j := range books[i].Chunks {
			if books[i].Chunks[j].HasEmbedding() {
				stats.EmbeddedChunks++
			}
		}
		if stats.Dimensions == 0 {
			stats.Dimensions = books[i].EmbeddingDimensions()
		}
	}
	return stats
}
