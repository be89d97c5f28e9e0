package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _, _, _, _ := newTestService()
	router := gin.New()
	handler := &Handler{Svc: svc}
	handler.RegisterRoutes(router.Group(""))
	return router, svc
}

func multipartUpload(t *testing.T, prompt string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if withFile {
		part, err := w.CreateFormFile("image", "notes.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte{0x89, 0x50, 0x4e, 0x47}); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if prompt != "" {
		if err := w.WriteField("prompt", prompt); err != nil {
			t.Fatalf("write prompt field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Timestamp string          `json:"timestamp"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Timestamp == "" {
		t.Fatalf("expected timestamp in envelope")
	}
	return env
}

func TestUploadEndpointRejectsOversizedFile(t *testing.T) {
	router, _ := setupRouter(t)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("image", "huge.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xab}, maxUploadBytes+1)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.WriteField("prompt", "explain this"); err != nil {
		t.Fatalf("write prompt field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if env.Success {
		t.Fatal("expected success=false")
	}
	if env.Message != "Uploaded file exceeds the 10 MB limit" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestUploadEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartUpload(t, "explain photosynthesis", true)
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decodeEnvelope(t, resp)
	if !env.Success || env.Message != "Document processed successfully" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	var doc Document
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.ID == "" || doc.Analysis == nil || len(doc.QuizQuestions) == 0 {
		t.Fatalf("expected populated document, got %+v", doc)
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartUpload(t, "explain photosynthesis", false)
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.Success || env.Message != "Image file is required" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestUploadEndpointMissingPrompt(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartUpload(t, "", true)
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.Success || env.Message != "Prompt is required" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/documents/0b7cbe42-9c0b-4a51-8f52-1f0a37f4a001", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.Success || env.Message != "Document not found" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestGetEndpointMalformedID(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.Success || env.Message != "Invalid document id" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestListEndpoint(t *testing.T) {
	router, svc := setupRouter(t)
	for i := 0; i < 3; i++ {
		if _, err := svc.Process(context.Background(), validUpload()); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/documents?page=1&limit=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	var listed ListResponse
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(listed.Documents))
	}
	if listed.Pagination.TotalPages != 2 || !listed.Pagination.HasNext || listed.Pagination.HasPrev {
		t.Fatalf("unexpected pagination %+v", listed.Pagination)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router, svc := setupRouter(t)
	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/documents/"+doc.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, err := svc.Get(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected document gone after delete")
	}
}

func TestRegenerateQuizEndpoint(t *testing.T) {
	router, svc := setupRouter(t)
	doc, err := svc.Process(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.ID+"/regenerate-quiz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	var payload struct {
		QuizQuestions []json.RawMessage `json:"quizQuestions"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.QuizQuestions) == 0 {
		t.Fatalf("expected regenerated quiz questions")
	}
}
