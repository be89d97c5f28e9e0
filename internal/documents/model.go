package documents

import (
	"time"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/videos"
)

// Analysis is the stored AI analysis of a document. All fields are optional;
// absence is normal for a degraded run.
type Analysis struct {
	Summary     string   `json:"summary,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	KeyPoints   []string `json:"keyPoints,omitempty"`
	Concepts    []string `json:"concepts,omitempty"`
}

// Document is one persisted upload with everything the pipeline produced.
type Document struct {
	ID                string            `json:"id"`
	OriginalImagePath string            `json:"originalImagePath"`
	StorageKey        string            `json:"-"`
	ExtractedText     string            `json:"extractedText"`
	UserPrompt        string            `json:"userPrompt"`
	Analysis          *Analysis         `json:"analysis,omitempty"`
	QuizQuestions     []ai.QuizQuestion `json:"quizQuestions"`
	YouTubeVideos     []videos.Video    `json:"youtubeVideos"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}
