package documents

import (
	"context"
	"time"

	"studyaid-backend/internal/ai"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, limit, offset int) ([]Document, int, error)
	UpdateQuiz(ctx context.Context, id string, questions []ai.QuizQuestion, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
