package driving

import (
	"context"

	"github.com/pathok-dev/pathok/internal/core/domain"
)

// AnswerService answers questions from textbook content.
type AnswerService interface {
	// Answer retrieves relevant chunks and generates a grounded answer.
	// It never panics and reports every failure through Answer.Error.
	Answer(ctx context.Context, question string, books []domain.Book, userID string) domain.Answer
}
