package ai

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"studyaid-backend/internal/shared/telemetry"
)

// MaxPromptHistoryTurns bounds how many prior conversation turns are replayed
// into the chat prompt. Distinct from the stored-history window the chat
// service reads back.
const MaxPromptHistoryTurns = 5

const defaultModel = "gemini-2.0-flash"

// Service wraps the Gemini API for analysis, quiz generation and chat
// answering. A nil client means the provider is not configured; every call
// then serves the deterministic fallback. Provider errors are absorbed into
// degraded content and never surface to callers.
type Service struct {
	client *genai.Client
	model  string
}

// New constructs the AI service. Client construction errors are absorbed.
func New(ctx context.Context, apiKey, model string) *Service {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if strings.TrimSpace(apiKey) == "" {
		return &Service{model: model}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		telemetry.Warn("ai.client_unavailable", map[string]any{"error": err.Error()})
		return &Service{model: model}
	}
	return &Service{client: client, model: model}
}

// NewUnconfigured returns a service that always serves fallback content.
func NewUnconfigured() *Service {
	return &Service{model: defaultModel}
}

// Configured reports whether a Gemini client is available.
func (s *Service) Configured() bool {
	return s.client != nil
}

// Analyze asks the model to summarize and explain the extracted text. The
// response is parsed in layers: strict JSON, tolerant key/value scrape, then
// a deterministic stub derived from the input text. The error return exists
// only for context cancellation.
func (s *Service) Analyze(ctx context.Context, text, userPrompt string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	raw, err := s.generate(ctx, buildAnalysisPrompt(text, userPrompt))
	if err != nil {
		telemetry.Warn("ai.analyze_fallback", map[string]any{"error": err.Error()})
		return stubAnalysis(text, userPrompt), nil
	}

	if res, ok := parseAnalysisJSON(raw); ok {
		return res, nil
	}
	if res, ok := scrapeAnalysis(raw); ok {
		return res, nil
	}
	telemetry.Warn("ai.analyze_unparseable", map[string]any{"response_len": len(raw)})
	return stubAnalysis(text, userPrompt), nil
}

// GenerateQuiz asks the model for quiz questions over the extracted text.
// Unparseable or failed responses degrade to a deterministic stub quiz.
func (s *Service) GenerateQuiz(ctx context.Context, text, userPrompt string) (QuizResult, error) {
	if err := ctx.Err(); err != nil {
		return QuizResult{}, err
	}

	raw, err := s.generate(ctx, buildQuizPrompt(text, userPrompt))
	if err != nil {
		telemetry.Warn("ai.quiz_fallback", map[string]any{"error": err.Error()})
		return stubQuiz(text), nil
	}

	if res, ok := parseQuizJSON(raw); ok {
		return res, nil
	}
	telemetry.Warn("ai.quiz_unparseable", map[string]any{"response_len": len(raw)})
	return stubQuiz(text), nil
}

// AnswerQuestion answers a follow-up question about a document. At most
// MaxPromptHistoryTurns of the supplied history are rendered into the prompt
// as "ROLE: content" lines.
func (s *Service) AnswerQuestion(ctx context.Context, question, documentContent string, history []Turn) (AnswerResult, error) {
	if err := ctx.Err(); err != nil {
		return AnswerResult{}, err
	}

	raw, err := s.generate(ctx, buildChatPrompt(question, documentContent, history))
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			telemetry.Warn("ai.answer_fallback", map[string]any{"error": err.Error()})
		}
		return stubAnswer(question), nil
	}
	return AnswerResult{Success: true, Answer: strings.TrimSpace(raw)}, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}
	res, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return res.Text(), nil
}

func buildAnalysisPrompt(text, userPrompt string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant. Analyze the following material and respond with ONLY a valid JSON object, no markdown code fences, matching exactly this schema:\n")
	b.WriteString(`{"summary": "...", "explanation": "...", "keyPoints": ["..."], "concepts": ["..."], "searchKeywords": ["..."]}` + "\n\n")
	b.WriteString("summary: 2-3 sentence overview. explanation: a clear explanation aimed at a student. keyPoints: the most important facts. concepts: the named concepts covered. searchKeywords: 2-4 short terms for finding educational videos.\n\n")
	b.WriteString("Student request: " + userPrompt + "\n\n")
	b.WriteString("Material:\n" + text + "\n")
	return b.String()
}

func buildQuizPrompt(text, userPrompt string) string {
	var b strings.Builder
	b.WriteString("Generate quiz questions for the material below. Respond with ONLY a valid JSON object, no markdown code fences, matching exactly this schema:\n")
	b.WriteString(`{"questions": [{"type": "mcq", "question": "...", "options": ["..."], "correctAnswer": "...", "explanation": "..."}]}` + "\n\n")
	b.WriteString(`type must be one of "mcq", "short_answer", "flashcard". Include options only for mcq. Produce 5 questions mixing the three types.` + "\n\n")
	b.WriteString("Student request: " + userPrompt + "\n\n")
	b.WriteString("Material:\n" + text + "\n")
	return b.String()
}

func buildChatPrompt(question, documentContent string, history []Turn) string {
	var b strings.Builder
	b.WriteString("You are a study assistant helping a student with their uploaded material. Answer concisely and helpfully.\n\n")
	b.WriteString("Document content:\n" + documentContent + "\n\n")

	if len(history) > MaxPromptHistoryTurns {
		history = history[len(history)-MaxPromptHistoryTurns:]
	}
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range history {
			b.WriteString(strings.ToUpper(t.Role) + ": " + t.Content + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Student question: " + question + "\n")
	return b.String()
}
