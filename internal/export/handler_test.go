package export

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupExportRouter(t *testing.T, withQuiz bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newExportService(withQuiz, nil)
	router := gin.New()
	handler := &Handler{Svc: svc}
	handler.RegisterRoutes(router.Group(""))
	return router
}

func TestExportEndpointStreamsPDF(t *testing.T) {
	router := setupExportRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/export/"+testDocID+"?type=summary", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	cd := resp.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, ".pdf") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("expected PDF body")
	}
}

func TestExportQuizEndpointEmptyQuiz(t *testing.T) {
	router := setupExportRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/export/"+testDocID+"/quiz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success || env.Message != "No quiz questions found for this document" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestExportOptionsEndpoint(t *testing.T) {
	router := setupExportRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/export/"+testDocID+"/options", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var env struct {
		Data Options `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Data.Available[string(ModeQuiz)] {
		t.Fatalf("expected quiz available, got %+v", env.Data.Available)
	}
}

func TestExportEndpointInvalidType(t *testing.T) {
	router := setupExportRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/export/"+testDocID+"?type=poster", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
