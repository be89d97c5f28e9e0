package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/ocr"
	"studyaid-backend/internal/videos"
)

type stubStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newStubStore() *stubStore {
	return &stubStore{saved: make(map[string][]byte)}
}

func (s *stubStore) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	if s.saveErr != nil {
		return "", 0, "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := "stored-" + fileName
	s.saved[key] = data
	return key, int64(len(data)), "image/png", nil
}

func (s *stubStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.saved, key)
	return nil
}

type stubOCR struct {
	text string
}

func (s stubOCR) ExtractStructuredText(ctx context.Context, imageName string, image []byte) ocr.StructuredResult {
	return ocr.StructuredResult{Success: true, StructuredText: s.text, Confidence: 0.9}
}

type stubAnalyzer struct {
	analysis   ai.AnalysisResult
	analyzeErr error
	quiz       ai.QuizResult
	quizErr    error
	quizCalls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text, userPrompt string) (ai.AnalysisResult, error) {
	if s.analyzeErr != nil {
		return ai.AnalysisResult{}, s.analyzeErr
	}
	return s.analysis, nil
}

func (s *stubAnalyzer) GenerateQuiz(ctx context.Context, text, userPrompt string) (ai.QuizResult, error) {
	s.quizCalls++
	if s.quizErr != nil {
		return ai.QuizResult{}, s.quizErr
	}
	return s.quiz, nil
}

type stubSearcher struct {
	result   videos.SearchResult
	keywords []string
}

func (s *stubSearcher) SearchEducational(ctx context.Context, keywords []string, subject string) videos.SearchResult {
	s.keywords = keywords
	return s.result
}

type stubChatCleaner struct {
	deleted []string
}

func (s *stubChatCleaner) DeleteByDocument(ctx context.Context, documentID string) error {
	s.deleted = append(s.deleted, documentID)
	return nil
}

func newTestService() (*Service, *MemoryRepo, *stubStore, *stubAnalyzer, *stubSearcher, *stubChatCleaner) {
	repo := NewMemoryRepo()
	store := newStubStore()
	analyzer := &stubAnalyzer{
		analysis: ai.AnalysisResult{
			Success:        true,
			Summary:        "Photosynthesis overview.",
			Explanation:    "Plants convert light into chemical energy.",
			KeyPoints:      []string{"light", "chlorophyll"},
			Concepts:       []string{"photosynthesis"},
			SearchKeywords: []string{"photosynthesis", "biology"},
		},
		quiz: ai.QuizResult{
			Success: true,
			Questions: []ai.QuizQuestion{
				{Type: ai.QuestionTypeMCQ, Question: "What drives photosynthesis?", Options: []string{"Light", "Sound"}, CorrectAnswer: "Light", Explanation: "Light energy is captured."},
				{Type: ai.QuestionTypeFlashcard, Question: "Define chlorophyll.", CorrectAnswer: "The pigment that absorbs light."},
			},
		},
	}
	searcher := &stubSearcher{
		result: videos.SearchResult{
			Success: true,
			Videos: []videos.Video{
				{Title: "Photosynthesis explained", VideoID: "abc123", Channel: "Bio Academy", ViewCount: 50000, URL: "https://www.youtube.com/watch?v=abc123"},
			},
		},
	}
	chats := &stubChatCleaner{}
	svc := &Service{
		Repo:   repo,
		Store:  store,
		OCR:    stubOCR{text: "Photosynthesis converts light into energy."},
		AI:     analyzer,
		Videos: searcher,
		Chats:  chats,
	}
	return svc, repo, store, analyzer, searcher, chats
}

func validUpload() UploadInput {
	return UploadInput{
		FileName: "notes.png",
		MimeType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		Prompt:   "explain photosynthesis",
	}
}

func TestProcessRoundTrip(t *testing.T) {
	svc, _, store, _, searcher, _ := newTestService()

	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if doc.ExtractedText != "Photosynthesis converts light into energy." {
		t.Fatalf("unexpected extractedText %q", doc.ExtractedText)
	}
	if doc.OriginalImagePath != "/uploads/stored-notes.png" {
		t.Fatalf("unexpected originalImagePath %q", doc.OriginalImagePath)
	}
	if _, ok := store.saved["stored-notes.png"]; !ok {
		t.Fatalf("expected upload to be stored")
	}
	if !reflect.DeepEqual(searcher.keywords, []string{"photosynthesis", "biology"}) {
		t.Fatalf("expected analysis keywords to drive video search, got %v", searcher.keywords)
	}

	fetched, err := svc.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(fetched.Analysis, doc.Analysis) {
		t.Fatalf("analysis mismatch after fetch")
	}
	if !reflect.DeepEqual(fetched.QuizQuestions, doc.QuizQuestions) {
		t.Fatalf("quiz mismatch after fetch")
	}
	if !reflect.DeepEqual(fetched.YouTubeVideos, doc.YouTubeVideos) {
		t.Fatalf("videos mismatch after fetch")
	}
}

func TestProcessValidation(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	in := validUpload()
	in.Data = nil
	if _, err := svc.Process(context.Background(), in); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}

	in = validUpload()
	in.Prompt = "   "
	if _, err := svc.Process(context.Background(), in); !errors.Is(err, ErrMissingPrompt) {
		t.Fatalf("expected ErrMissingPrompt, got %v", err)
	}
}

func TestProcessAnalysisFailureCleansUpUpload(t *testing.T) {
	svc, repo, store, analyzer, _, _ := newTestService()
	analyzer.analyzeErr = errors.New("provider context canceled")

	_, err := svc.Process(context.Background(), validUpload())
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "stored-notes.png" {
		t.Fatalf("expected stored upload removed, got %v", store.deleted)
	}
	if _, total, _ := repo.List(context.Background(), 10, 0); total != 0 {
		t.Fatalf("expected no persisted document, got %d", total)
	}
}

func TestProcessQuizFailureDegradesToEmpty(t *testing.T) {
	svc, _, _, analyzer, _, _ := newTestService()
	analyzer.quizErr = errors.New("quiz provider down")

	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.QuizQuestions == nil || len(doc.QuizQuestions) != 0 {
		t.Fatalf("expected empty quiz list, got %v", doc.QuizQuestions)
	}
}

func TestProcessDefaultsSearchKeywords(t *testing.T) {
	svc, _, _, analyzer, searcher, _ := newTestService()
	analyzer.analysis.SearchKeywords = nil

	if _, err := svc.Process(context.Background(), validUpload()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !reflect.DeepEqual(searcher.keywords, []string{"education", "tutorial"}) {
		t.Fatalf("expected default keywords, got %v", searcher.keywords)
	}
}

func TestRegenerateQuizOverwrites(t *testing.T) {
	svc, _, _, analyzer, _, _ := newTestService()

	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	analyzer.quiz = ai.QuizResult{
		Success: true,
		Questions: []ai.QuizQuestion{
			{Type: ai.QuestionTypeShortAnswer, Question: "Name the pigment involved.", CorrectAnswer: "Chlorophyll"},
		},
	}
	questions, err := svc.RegenerateQuiz(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("RegenerateQuiz: %v", err)
	}
	if len(questions) != 1 || questions[0].Question != "Name the pigment involved." {
		t.Fatalf("unexpected regenerated quiz %v", questions)
	}

	fetched, err := svc.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(fetched.QuizQuestions) != 1 {
		t.Fatalf("expected stored quiz replaced, got %d questions", len(fetched.QuizQuestions))
	}
	if !fetched.UpdatedAt.After(doc.UpdatedAt) && !fetched.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Fatalf("expected updatedAt refreshed")
	}
}

func TestDeleteRemovesFileAndChat(t *testing.T) {
	svc, _, store, _, _, chats := newTestService()

	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != doc.StorageKey {
		t.Fatalf("expected backing file removed, got %v", store.deleted)
	}
	if len(chats.deleted) != 1 || chats.deleted[0] != doc.ID {
		t.Fatalf("expected chat history removed, got %v", chats.deleted)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	for i := 0; i < 5; i++ {
		if _, err := svc.Process(context.Background(), validUpload()); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}

	res, err := svc.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(res.Documents))
	}
	if res.Pagination.TotalPages != 3 || !res.Pagination.HasNext || !res.Pagination.HasPrev {
		t.Fatalf("unexpected pagination meta %+v", res.Pagination)
	}

	last, err := svc.List(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(last.Documents) != 1 || last.Pagination.HasNext || !last.Pagination.HasPrev {
		t.Fatalf("unexpected last page %+v", last.Pagination)
	}
}
