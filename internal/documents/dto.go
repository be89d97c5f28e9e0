package documents

import (
	"time"

	"studyaid-backend/internal/shared/pagination"
)

// ListItem is the condensed document shape returned by paginated listings.
type ListItem struct {
	ID         string    `json:"id"`
	UserPrompt string    `json:"userPrompt"`
	Summary    string    `json:"summary,omitempty"`
	QuizCount  int       `json:"quizCount"`
	VideoCount int       `json:"videoCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListResponse pairs a page of document summaries with page metadata.
type ListResponse struct {
	Documents  []ListItem      `json:"documents"`
	Pagination pagination.Meta `json:"pagination"`
}

func toListItem(doc Document) ListItem {
	item := ListItem{
		ID:         doc.ID,
		UserPrompt: doc.UserPrompt,
		QuizCount:  len(doc.QuizQuestions),
		VideoCount: len(doc.YouTubeVideos),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.Analysis != nil {
		item.Summary = doc.Analysis.Summary
	}
	return item
}
