package ai

// Quiz question types understood by the frontend.
const (
	QuestionTypeMCQ         = "mcq"
	QuestionTypeShortAnswer = "short_answer"
	QuestionTypeFlashcard   = "flashcard"
)

// AnalysisResult is the outcome of analyzing extracted text against a user
// prompt. Success is always true; Degraded marks fallback content so callers
// can tell genuine analysis from substitute content without inspecting text.
type AnalysisResult struct {
	Success        bool     `json:"success"`
	Degraded       bool     `json:"degraded"`
	Summary        string   `json:"summary"`
	Explanation    string   `json:"explanation"`
	KeyPoints      []string `json:"keyPoints"`
	Concepts       []string `json:"concepts"`
	SearchKeywords []string `json:"searchKeywords"`
}

// QuizQuestion is a single generated question.
type QuizQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuizResult is the outcome of quiz generation.
type QuizResult struct {
	Success   bool           `json:"success"`
	Degraded  bool           `json:"degraded"`
	Questions []QuizQuestion `json:"questions"`
}

// AnswerResult is the outcome of answering a chat question.
type AnswerResult struct {
	Success  bool   `json:"success"`
	Degraded bool   `json:"degraded"`
	Answer   string `json:"answer"`
}

// Turn is one prior conversation exchange supplied as chat context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
