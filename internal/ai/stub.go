package ai

import (
	"fmt"
	"strings"
)

// Deterministic fallback content derived from the input text. Used when the
// provider is unreachable or its output cannot be parsed at all.

func stubAnalysis(text, userPrompt string) AnalysisResult {
	words := len(strings.Fields(text))
	sentences := splitSentences(text)

	first := ""
	if len(sentences) > 0 {
		first = sentences[0]
	}

	summary := fmt.Sprintf("This material contains %d words across %d sentences.", words, len(sentences))
	if first != "" {
		summary += " " + first
	}

	keyPoints := make([]string, 0, 3)
	for i, s := range sentences {
		if i >= 3 {
			break
		}
		keyPoints = append(keyPoints, s)
	}
	if len(keyPoints) == 0 {
		keyPoints = []string{"Review the extracted material for key details."}
	}

	return AnalysisResult{
		Success:        true,
		Degraded:       true,
		Summary:        summary,
		Explanation:    "AI analysis is currently unavailable. The content above is a direct digest of the extracted text; review it alongside the original material.",
		KeyPoints:      keyPoints,
		Concepts:       []string{"General study material"},
		SearchKeywords: promptKeywords(userPrompt),
	}
}

func stubQuiz(text string) QuizResult {
	sentences := splitSentences(text)
	questions := make([]QuizQuestion, 0, 3)
	for i, s := range sentences {
		if i >= 3 {
			break
		}
		questions = append(questions, QuizQuestion{
			Type:          QuestionTypeFlashcard,
			Question:      fmt.Sprintf("Recall statement %d from the material.", i+1),
			CorrectAnswer: s,
			Explanation:   "Taken directly from the extracted text.",
		})
	}
	return QuizResult{Success: true, Degraded: true, Questions: questions}
}

func stubAnswer(question string) AnswerResult {
	return AnswerResult{
		Success:  true,
		Degraded: true,
		Answer: fmt.Sprintf(
			"The AI assistant is currently unavailable, so this question could not be answered: %q. Please review the document's extracted text and analysis, or try again later.",
			question,
		),
	}
}

// splitSentences splits on sentence-ending punctuation, keeping the
// terminator with each sentence so stub output quotes the source verbatim.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func promptKeywords(prompt string) []string {
	fields := strings.Fields(prompt)
	out := make([]string, 0, 3)
	for _, f := range fields {
		f = strings.Trim(strings.ToLower(f), `.,!?"'`)
		if len(f) < 4 {
			continue
		}
		out = append(out, f)
		if len(out) == 3 {
			break
		}
	}
	return out
}
