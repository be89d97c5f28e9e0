package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/shared/metrics"
	"studyaid-backend/internal/shared/pagination"
)

const previewMaxLen = 100

// DocumentSource resolves the document a conversation is bound to. Every
// chat operation checks document existence before touching chat storage.
type DocumentSource interface {
	Get(ctx context.Context, id string) (documents.Document, error)
}

// Answerer produces an assistant reply given document content and history.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question, documentContent string, history []ai.Turn) (ai.AnswerResult, error)
}

// Service manages per-document conversations.
type Service struct {
	Repo  Repo
	Docs  DocumentSource
	AI    Answerer
	Cache *HistoryCache
}

// SendResult is the outcome of one chat turn.
type SendResult struct {
	DocumentID string  `json:"documentId"`
	Message    Message `json:"message"`
	Reply      Message `json:"reply"`
	Degraded   bool    `json:"degraded"`
}

// ContextResult is the assembled document context fed into the AI adapter.
type ContextResult struct {
	DocumentID   string `json:"documentId"`
	Context      string `json:"context"`
	MessageCount int    `json:"messageCount"`
}

// Summary is the condensed conversation shape returned by listings.
type Summary struct {
	DocumentID   string    `json:"documentId"`
	UserPrompt   string    `json:"userPrompt,omitempty"`
	LastMessage  string    `json:"lastMessage,omitempty"`
	MessageCount int       `json:"messageCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListResponse pairs a page of conversation summaries with page metadata.
type ListResponse struct {
	Chats      []Summary       `json:"chats"`
	Pagination pagination.Meta `json:"pagination"`
}

// Send appends a user message to the document's conversation, asks the AI
// adapter with the document content and recent history as context, appends
// the reply, and persists the grown history.
func (s *Service) Send(ctx context.Context, documentID, message string) (SendResult, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return SendResult{}, ErrMissingDocumentID
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return SendResult{}, ErrEmptyMessage
	}

	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		return SendResult{}, err
	}

	h, err := s.loadHistory(ctx, documentID)
	if err != nil {
		return SendResult{}, err
	}

	answer, err := s.AI.AnswerQuestion(ctx, message, documentContext(doc), recentTurns(h.Messages))
	if err != nil {
		return SendResult{}, fmt.Errorf("answer question: %w", err)
	}

	now := time.Now().UTC()
	userMsg := Message{Role: RoleUser, Content: message, Timestamp: now}
	replyMsg := Message{Role: RoleAssistant, Content: answer.Answer, Timestamp: time.Now().UTC()}
	h.Messages = append(h.Messages, userMsg, replyMsg)
	h.UpdatedAt = replyMsg.Timestamp

	if err := s.Repo.Save(ctx, h); err != nil {
		return SendResult{}, fmt.Errorf("save chat history: %w", err)
	}
	s.Cache.Set(ctx, h)
	metrics.IncChatTurn()

	return SendResult{
		DocumentID: documentID,
		Message:    userMsg,
		Reply:      replyMsg,
		Degraded:   answer.Degraded,
	}, nil
}

// Clear truncates the conversation to empty. Clearing a document with no
// history yet is a no-op, not an error.
func (s *Service) Clear(ctx context.Context, documentID string) error {
	if _, err := s.Docs.Get(ctx, documentID); err != nil {
		return err
	}
	h, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			return nil
		}
		return err
	}
	h.Messages = []Message{}
	h.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Save(ctx, h); err != nil {
		return err
	}
	s.Cache.Delete(ctx, documentID)
	return nil
}

// HistoryOf returns the full ordered message list. A document without a
// conversation yields an empty list.
func (s *Service) HistoryOf(ctx context.Context, documentID string) (History, error) {
	if _, err := s.Docs.Get(ctx, documentID); err != nil {
		return History{}, err
	}
	h, err := s.Repo.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			return History{DocumentID: documentID, Messages: []Message{}}, nil
		}
		return History{}, err
	}
	return h, nil
}

// Context returns the assembled document context the next AI call would see.
func (s *Service) Context(ctx context.Context, documentID string) (ContextResult, error) {
	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		return ContextResult{}, err
	}
	count := 0
	if h, err := s.Repo.Get(ctx, documentID); err == nil {
		count = len(h.Messages)
	}
	return ContextResult{
		DocumentID:   documentID,
		Context:      documentContext(doc),
		MessageCount: count,
	}, nil
}

// ListAll returns a page of conversation summaries sorted by recency.
func (s *Service) ListAll(ctx context.Context, page, limit int) (ListResponse, error) {
	page, limit = pagination.Normalize(page, limit)
	histories, total, err := s.Repo.ListAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return ListResponse{}, err
	}
	summaries := make([]Summary, 0, len(histories))
	for _, h := range histories {
		sum := Summary{
			DocumentID:   h.DocumentID,
			MessageCount: len(h.Messages),
			UpdatedAt:    h.UpdatedAt,
		}
		if doc, err := s.Docs.Get(ctx, h.DocumentID); err == nil {
			sum.UserPrompt = doc.UserPrompt
		}
		if len(h.Messages) > 0 {
			sum.LastMessage = preview(h.Messages[len(h.Messages)-1].Content)
		}
		summaries = append(summaries, sum)
	}
	return ListResponse{
		Chats:      summaries,
		Pagination: pagination.NewMeta(page, limit, total),
	}, nil
}

func (s *Service) loadHistory(ctx context.Context, documentID string) (History, error) {
	if h, ok := s.Cache.Get(ctx, documentID); ok {
		return h, nil
	}
	h, err := s.Repo.Get(ctx, documentID)
	if err == nil {
		return h, nil
	}
	if errors.Is(err, ErrNoHistory) {
		now := time.Now().UTC()
		return History{
			DocumentID: documentID,
			Messages:   []Message{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil
	}
	return History{}, err
}

// documentContext joins the document's text and analysis into the content
// block the AI adapter answers against.
func documentContext(doc documents.Document) string {
	parts := []string{doc.ExtractedText}
	if doc.Analysis != nil {
		if doc.Analysis.Summary != "" {
			parts = append(parts, "Summary: "+doc.Analysis.Summary)
		}
		if len(doc.Analysis.KeyPoints) > 0 {
			parts = append(parts, "Key points: "+strings.Join(doc.Analysis.KeyPoints, "; "))
		}
		if len(doc.Analysis.Concepts) > 0 {
			parts = append(parts, "Concepts: "+strings.Join(doc.Analysis.Concepts, "; "))
		}
	}
	return strings.Join(parts, "\n")
}

// recentTurns converts the tail of the stored history into AI turns.
func recentTurns(messages []Message) []ai.Turn {
	start := 0
	if len(messages) > MaxStoredContextMessages {
		start = len(messages) - MaxStoredContextMessages
	}
	turns := make([]ai.Turn, 0, len(messages)-start)
	for _, m := range messages[start:] {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewMaxLen {
		return content
	}
	return string(runes[:previewMaxLen]) + "..."
}
