package documents

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/extract"
	"studyaid-backend/internal/ocr"
	"studyaid-backend/internal/shared/metrics"
	"studyaid-backend/internal/shared/pagination"
	"studyaid-backend/internal/shared/storage/object"
	"studyaid-backend/internal/shared/telemetry"
	"studyaid-backend/internal/videos"
)

// defaultSearchKeywords is used when analysis produced no search keywords.
var defaultSearchKeywords = []string{"education", "tutorial"}

// TextExtractor produces text from an uploaded image.
type TextExtractor interface {
	ExtractStructuredText(ctx context.Context, imageName string, image []byte) ocr.StructuredResult
}

// Analyzer produces the analysis and quiz content for extracted text.
type Analyzer interface {
	Analyze(ctx context.Context, text, userPrompt string) (ai.AnalysisResult, error)
	GenerateQuiz(ctx context.Context, text, userPrompt string) (ai.QuizResult, error)
}

// VideoSearcher finds study videos matching the analysis keywords.
type VideoSearcher interface {
	SearchEducational(ctx context.Context, keywords []string, subject string) videos.SearchResult
}

// ChatCleaner removes chat history when its document goes away.
type ChatCleaner interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// Service runs the upload pipeline and owns document CRUD.
type Service struct {
	Repo   Repo
	Store  object.ObjectStore
	OCR    TextExtractor
	AI     Analyzer
	Videos VideoSearcher
	Chats  ChatCleaner

	// PublicPathPrefix is prepended to storage keys to form the
	// static-served path clients can fetch the original upload from.
	PublicPathPrefix string
}

// UploadInput is the validated multipart payload for the pipeline.
type UploadInput struct {
	FileName string
	MimeType string
	Data     []byte
	Prompt   string
}

// Process runs the full pipeline: store the upload, extract text, analyze,
// generate a quiz, search videos, and persist the resulting document.
// Adapter degradation never aborts the pipeline; only a hard analysis
// failure does, in which case the stored upload is cleaned up best-effort.
func (s *Service) Process(ctx context.Context, in UploadInput) (Document, error) {
	if len(in.Data) == 0 || strings.TrimSpace(in.FileName) == "" {
		return Document{}, ErrMissingFile
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return Document{}, ErrMissingPrompt
	}

	started := metrics.NowMillis()
	metrics.IncUploadStarted()

	key, size, mime, err := s.Store.Save(ctx, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		metrics.IncUploadFailed()
		return Document{}, fmt.Errorf("store upload: %w", err)
	}
	telemetry.Info("documents.upload_stored", map[string]any{
		"storage_key": key,
		"size_bytes":  size,
		"mime_type":   mime,
	})

	extractedText := s.extractText(ctx, in, mime)

	analysis, err := s.AI.Analyze(ctx, extractedText, prompt)
	if err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("documents.upload_cleanup_failed", map[string]any{
				"storage_key": key,
				"error":       delErr.Error(),
			})
		}
		metrics.IncUploadFailed()
		return Document{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	quiz, err := s.AI.GenerateQuiz(ctx, extractedText, prompt)
	if err != nil {
		telemetry.Warn("documents.quiz_generation_failed", map[string]any{"error": err.Error()})
		quiz = ai.QuizResult{Success: true, Degraded: true, Questions: []ai.QuizQuestion{}}
	}

	keywords := analysis.SearchKeywords
	if len(keywords) == 0 {
		keywords = defaultSearchKeywords
	}
	found := s.Videos.SearchEducational(ctx, keywords, prompt)

	now := time.Now().UTC()
	doc := Document{
		ID:                uuid.NewString(),
		OriginalImagePath: s.publicPath(key),
		StorageKey:        key,
		ExtractedText:     extractedText,
		UserPrompt:        prompt,
		Analysis: &Analysis{
			Summary:     analysis.Summary,
			Explanation: analysis.Explanation,
			KeyPoints:   analysis.KeyPoints,
			Concepts:    analysis.Concepts,
		},
		QuizQuestions: quiz.Questions,
		YouTubeVideos: found.Videos,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc.QuizQuestions == nil {
		doc.QuizQuestions = []ai.QuizQuestion{}
	}
	if doc.YouTubeVideos == nil {
		doc.YouTubeVideos = []videos.Video{}
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("documents.upload_cleanup_failed", map[string]any{
				"storage_key": key,
				"error":       delErr.Error(),
			})
		}
		metrics.IncUploadFailed()
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	metrics.IncUploadCompleted()
	metrics.ObserveUploadDurationMs(metrics.NowMillis() - started)
	return doc, nil
}

// extractText picks the extraction strategy for the upload. PDFs are read
// directly; everything else goes through OCR, which degrades internally.
func (s *Service) extractText(ctx context.Context, in UploadInput, mime string) string {
	if extract.IsPDF(mime, in.FileName, in.Data) {
		text, err := extract.TextFromPDF(ctx, in.Data)
		if err == nil && strings.TrimSpace(text) != "" {
			return ocr.NormalizeWhitespace(text)
		}
		if err != nil {
			telemetry.Warn("documents.pdf_extract_failed", map[string]any{
				"file_name": in.FileName,
				"error":     err.Error(),
			})
		}
	}
	res := s.OCR.ExtractStructuredText(ctx, in.FileName, in.Data)
	return res.StructuredText
}

// RegenerateQuiz re-runs quiz generation against the stored text and
// replaces the document's questions.
func (s *Service) RegenerateQuiz(ctx context.Context, id string) ([]ai.QuizQuestion, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	quiz, err := s.AI.GenerateQuiz(ctx, doc.ExtractedText, doc.UserPrompt)
	if err != nil {
		return nil, fmt.Errorf("regenerate quiz: %w", err)
	}
	questions := quiz.Questions
	if questions == nil {
		questions = []ai.QuizQuestion{}
	}
	if err := s.Repo.UpdateQuiz(ctx, doc.ID, questions, time.Now().UTC()); err != nil {
		return nil, err
	}
	return questions, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrInvalidID
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a page of document summaries sorted by recency.
func (s *Service) List(ctx context.Context, page, limit int) (ListResponse, error) {
	page, limit = pagination.Normalize(page, limit)
	docs, total, err := s.Repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return ListResponse{}, err
	}
	items := make([]ListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toListItem(doc))
	}
	return ListResponse{
		Documents:  items,
		Pagination: pagination.NewMeta(page, limit, total),
	}, nil
}

// Delete removes a document, its chat history, and best-effort the backing
// upload file.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, doc.ID); err != nil {
		return err
	}
	if s.Chats != nil {
		if err := s.Chats.DeleteByDocument(ctx, doc.ID); err != nil {
			telemetry.Warn("documents.chat_cleanup_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}
	}
	if doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Warn("documents.file_cleanup_failed", map[string]any{
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
		}
	}
	return nil
}

func (s *Service) publicPath(key string) string {
	prefix := s.PublicPathPrefix
	if prefix == "" {
		prefix = "/uploads/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}
