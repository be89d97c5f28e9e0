package export

import (
	"context"
	"fmt"

	"studyaid-backend/internal/chat"
	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/shared/metrics"
)

// Mode selects which view of a document gets rendered.
type Mode string

const (
	ModeComplete Mode = "complete"
	ModeSummary  Mode = "summary"
	ModeQuiz     Mode = "quiz"
	ModeNotes    Mode = "notes"
	ModeChat     Mode = "chat"
)

const maxExportVideos = 8

// DocumentSource resolves the document being exported.
type DocumentSource interface {
	Get(ctx context.Context, id string) (documents.Document, error)
}

// HistorySource resolves the conversation attached to a document.
type HistorySource interface {
	HistoryOf(ctx context.Context, documentID string) (chat.History, error)
}

// Service renders stored documents into PDF views.
type Service struct {
	Docs  DocumentSource
	Chats HistorySource
}

// Options reports, per mode, whether content exists to export. Computing it
// never mutates stored state.
type Options struct {
	DocumentID string          `json:"documentId"`
	Available  map[string]bool `json:"available"`
}

// Result is one rendered export.
type Result struct {
	FileName string
	Data     []byte
}

// Options reports which export modes have content for the document.
func (s *Service) Options(ctx context.Context, id string) (Options, error) {
	doc, err := s.Docs.Get(ctx, id)
	if err != nil {
		return Options{}, err
	}
	hasSummary := doc.Analysis != nil && doc.Analysis.Summary != ""
	hasChat := false
	if s.Chats != nil {
		if h, err := s.Chats.HistoryOf(ctx, id); err == nil && len(h.Messages) > 0 {
			hasChat = true
		}
	}
	return Options{
		DocumentID: doc.ID,
		Available: map[string]bool{
			string(ModeComplete): true,
			string(ModeSummary):  hasSummary,
			string(ModeQuiz):     len(doc.QuizQuestions) > 0,
			string(ModeNotes):    hasSummary,
			string(ModeChat):     hasChat,
		},
	}, nil
}

// Render produces the PDF for the requested mode.
func (s *Service) Render(ctx context.Context, id string, mode Mode) (Result, error) {
	doc, err := s.Docs.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}

	var b *pdfBuilder
	switch mode {
	case ModeComplete:
		b = newPDFBuilder("Study Guide")
		writeStudyContent(b, doc, true)
		writeQuizSection(b, doc)
		writeVideoSection(b, doc)
	case ModeSummary:
		b = newPDFBuilder("Summary")
		writeStudyContent(b, doc, false)
	case ModeNotes:
		b = newPDFBuilder("Study Notes")
		writeStudyContent(b, doc, false)
	case ModeQuiz:
		if len(doc.QuizQuestions) == 0 {
			return Result{}, ErrNoQuiz
		}
		b = newPDFBuilder("Quiz")
		writeQuizSection(b, doc)
	case ModeChat:
		h, err := s.Chats.HistoryOf(ctx, id)
		if err != nil {
			return Result{}, err
		}
		if len(h.Messages) == 0 {
			return Result{}, ErrNoChat
		}
		b = newPDFBuilder("Chat Transcript")
		writeChatSection(b, doc, h)
	default:
		return Result{}, ErrUnknownMode
	}

	data, err := b.bytes()
	if err != nil {
		return Result{}, fmt.Errorf("render pdf: %w", err)
	}
	metrics.IncExportRendered()
	return Result{
		FileName: fmt.Sprintf("study-aid-%s-%s.pdf", mode, doc.ID),
		Data:     data,
	}, nil
}

// writeStudyContent emits the extracted text and analysis sections. The
// explanation is included only in the complete view.
func writeStudyContent(b *pdfBuilder, doc documents.Document, withExplanation bool) {
	if doc.UserPrompt != "" {
		b.label("Prompt")
		b.paragraph(doc.UserPrompt)
		b.spacer()
	}
	if doc.ExtractedText != "" {
		b.heading("Extracted Text")
		b.paragraph(doc.ExtractedText)
		b.spacer()
	}
	if doc.Analysis == nil {
		return
	}
	if doc.Analysis.Summary != "" {
		b.heading("Summary")
		b.paragraph(doc.Analysis.Summary)
		b.spacer()
	}
	if len(doc.Analysis.KeyPoints) > 0 {
		b.heading("Key Points")
		for _, p := range doc.Analysis.KeyPoints {
			b.bullet(p)
		}
		b.spacer()
	}
	if len(doc.Analysis.Concepts) > 0 {
		b.heading("Concepts")
		for _, c := range doc.Analysis.Concepts {
			b.bullet(c)
		}
		b.spacer()
	}
	if withExplanation && doc.Analysis.Explanation != "" {
		b.heading("Explanation")
		b.paragraph(doc.Analysis.Explanation)
		b.spacer()
	}
}

// writeQuizSection emits numbered questions with lettered options, the
// correct option marked, and the explanation in italics.
func writeQuizSection(b *pdfBuilder, doc documents.Document) {
	if len(doc.QuizQuestions) == 0 {
		return
	}
	b.heading("Quiz Questions")
	for i, q := range doc.QuizQuestions {
		b.label(fmt.Sprintf("%d. %s", i+1, q.Question))
		for j, opt := range q.Options {
			line := fmt.Sprintf("%c. %s", 'A'+j, opt)
			if opt == q.CorrectAnswer {
				line += " (correct)"
			}
			b.option(line)
		}
		if len(q.Options) == 0 && q.CorrectAnswer != "" {
			b.option("Answer: " + q.CorrectAnswer)
		}
		if q.Explanation != "" {
			b.italic(q.Explanation)
		}
		b.spacer()
	}
}

func writeVideoSection(b *pdfBuilder, doc documents.Document) {
	if len(doc.YouTubeVideos) == 0 {
		return
	}
	b.heading("Recommended Videos")
	videos := doc.YouTubeVideos
	if len(videos) > maxExportVideos {
		videos = videos[:maxExportVideos]
	}
	for _, v := range videos {
		b.label(v.Title)
		b.paragraph(v.Channel)
		b.paragraph(v.URL)
		b.spacer()
	}
}

func writeChatSection(b *pdfBuilder, doc documents.Document, h chat.History) {
	if doc.UserPrompt != "" {
		b.label("Document")
		b.paragraph(doc.UserPrompt)
		b.spacer()
	}
	b.heading("Conversation")
	for _, m := range h.Messages {
		speaker := "You"
		if m.Role == chat.RoleAssistant {
			speaker = "Assistant"
		}
		b.label(speaker)
		b.paragraph(m.Content)
		b.spacer()
	}
}
