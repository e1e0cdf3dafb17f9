package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

func TestNewSearchService(t *testing.T) {
	service := NewSearchService(nil)

	require.NotNil(t, service)
	assert.Equal(t, domain.DefaultEmbeddingTimeout, service.embedTimeout)
}

func TestSearchService_SetEmbedTimeout(t *testing.T) {
	service := NewSearchService(nil)

	service.SetEmbedTimeout(0)
	assert.Equal(t, domain.DefaultEmbeddingTimeout, service.embedTimeout)

	service.SetEmbedTimeout(time.Second)
	assert.Equal(t, time.Second, service.embedTimeout)
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 0}}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("b", chunk("c1", "text", 1, 0))}

	for _, q := range []string{"", "   \t\n  "} {
		results, err := service.Search(context.Background(), q, books, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Empty(t, embed.queries)
}

func TestSearchService_Search_ExactMatch(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 0}}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("বাংলা ব্যাকরণ", chunk("c1", "সমাস কাকে বলে", 1, 0))}

	results, err := service.Search(context.Background(), "সমাস কাকে বলে", books, 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "বাংলা ব্যাকরণ", results[0].BookTitle)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, domain.ScoringEmbedding, results[0].Method)
	assert.Equal(t, []string{"সমাস কাকে বলে"}, embed.queries)
}

func TestSearchService_Search_KeywordFallback_NoEmbeddingService(t *testing.T) {
	service := NewSearchService(nil)
	books := []domain.Book{newBook("গণিত",
		chunk("c1", "বৃত্তের ক্ষেত্রফল", 0, 1),
		chunk("c2", "ত্রিকোণমিতিক অনুপাত কি", 1, 0),
	)}

	results, err := service.Search(context.Background(), "ত্রিকোণমিতিক", books, 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c2", results[0].Chunk.ID)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, domain.ScoringKeyword, results[0].Method)
}

func TestSearchService_Search_FallbackOnEmbeddingTimeout(t *testing.T) {
	embed := &mockEmbeddingService{block: true}
	service := NewSearchService(embed)
	service.SetEmbedTimeout(20 * time.Millisecond)
	books := []domain.Book{newBook("গণিত",
		chunk("c1", "বৃত্তের ক্ষেত্রফল", 0, 1),
		chunk("c2", "ত্রিকোণমিতিক অনুপাত কি", 1, 0),
	)}

	start := time.Now()
	results, err := service.Search(context.Background(), "ত্রিকোণমিতিক অনুপাত", books, 2)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, results, 2)
	assert.Equal(t, "c2", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	for _, r := range results {
		assert.Equal(t, domain.ScoringKeyword, r.Method)
	}
}

func TestSearchService_Search_FallbackOnEmbeddingError(t *testing.T) {
	embed := &mockEmbeddingService{embedErr: errors.New("connection refused")}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("b", chunk("c1", "photosynthesis in plants", 1, 0))}

	results, err := service.Search(context.Background(), "photosynthesis", books, 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.ScoringKeyword, results[0].Method)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchService_Search_FallbackOnEmptyEmbedding(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{}}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("b", chunk("c1", "cell", 1, 0))}

	results, err := service.Search(context.Background(), "cell", books, 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.ScoringKeyword, results[0].Method)
}

func TestSearchService_Search_MixedChunksWithoutEmbeddings(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 0}}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("b",
		chunk("with", "unrelated words", 0, 1),
		chunk("without", "osmosis explained"),
	)}

	results, err := service.Search(context.Background(), "osmosis", books, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "without", results[0].Chunk.ID)
	assert.Equal(t, domain.ScoringKeyword, results[0].Method)
	assert.Equal(t, "with", results[1].Chunk.ID)
	assert.Equal(t, domain.ScoringEmbedding, results[1].Method)
}

func TestSearchService_Search_MultiBookRanking(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 0}}
	service := NewSearchService(embed)
	bookA := newBook("Book A", chunk("a1", "alpha", 0.9, 0.1))
	bookB := newBook("Book B", chunk("b1", "beta", 0.1, 0.9))

	for _, books := range [][]domain.Book{{bookA, bookB}, {bookB, bookA}} {
		results, err := service.Search(context.Background(), "query", books, 1)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Book A", results[0].BookTitle)
		assert.Equal(t, "a1", results[0].Chunk.ID)
	}
}

func TestSearchService_Search_TopKOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	embed := &mockEmbeddingService{embedding: []float32{1, 0.5, -0.25}}
	service := NewSearchService(embed)

	var books []domain.Book
	for b := 0; b < 4; b++ {
		var chunks []domain.Chunk
		for c := 0; c < 10; c++ {
			chunks = append(chunks, chunk(fmt.Sprintf("b%d-c%d", b, c), "text",
				float32(rng.NormFloat64()), float32(rng.NormFloat64()), float32(rng.NormFloat64())))
		}
		books = append(books, newBook(fmt.Sprintf("book-%d", b), chunks...))
	}

	all, err := service.Search(context.Background(), "q", books, 1000)
	require.NoError(t, err)
	require.Len(t, all, 40)

	for _, k := range []int{1, 3, 5, 17, 40} {
		results, err := service.Search(context.Background(), "q", books, k)
		require.NoError(t, err)
		require.Len(t, results, k)

		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
		// Every returned score is >= every non-returned score
		lowest := results[len(results)-1].Score
		for _, r := range all[k:] {
			assert.LessOrEqual(t, r.Score, lowest)
		}
	}
}

func TestSearchService_Search_UnderfullCorpus(t *testing.T) {
	service := NewSearchService(nil)
	books := []domain.Book{newBook("b", chunk("c1", "x"), chunk("c2", "y"))}

	results, err := service.Search(context.Background(), "x", books, 10)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchService_Search_DefaultLimit(t *testing.T) {
	service := NewSearchService(nil)
	var chunks []domain.Chunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, chunk(fmt.Sprintf("c%d", i), "word"))
	}
	books := []domain.Book{newBook("b", chunks...)}

	results, err := service.Search(context.Background(), "word", books, 0)

	require.NoError(t, err)
	assert.Len(t, results, domain.DefaultSearchLimit)
}

func TestSearchService_Search_TiesKeepCorpusOrder(t *testing.T) {
	service := NewSearchService(nil)
	books := []domain.Book{
		newBook("first", chunk("f0", "same"), chunk("f1", "same")),
		newBook("second", chunk("s0", "same")),
	}

	results, err := service.Search(context.Background(), "same", books, 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "f0", results[0].Chunk.ID)
	assert.Equal(t, "f1", results[1].Chunk.ID)
	assert.Equal(t, "s0", results[2].Chunk.ID)
}

func TestSearchService_Search_EmptyCorpus(t *testing.T) {
	service := NewSearchService(&mockEmbeddingService{embedding: []float32{1}})

	results, err := service.Search(context.Background(), "anything", nil, 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_Search_DimensionMismatch(t *testing.T) {
	embed := &mockEmbeddingService{embedding: []float32{1, 0, 0}}
	service := NewSearchService(embed)
	books := []domain.Book{newBook("b", chunk("c1", "text", 1, 0))}

	results, err := service.Search(context.Background(), "text", books, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, results)
}

func TestSearchService_Search_Cancelled(t *testing.T) {
	service := NewSearchService(nil)
	books := []domain.Book{newBook("b", chunk("c1", "text"))}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Search(ctx, "text", books, 5)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchService_Search_DoesNotMutateCorpus(t *testing.T) {
	service := NewSearchService(&mockEmbeddingService{embedding: []float32{0, 1}})
	books := []domain.Book{newBook("b",
		chunk("c0", "a", 1, 0),
		chunk("c1", "b", 0, 1),
	)}

	_, err := service.Search(context.Background(), "q", books, 2)

	require.NoError(t, err)
	assert.Equal(t, "c0", books[0].Chunks[0].ID)
	assert.Equal(t, "c1", books[0].Chunks[1].ID)
}
