package documents

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studyaid-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

// Handler exposes the document endpoints.
type Handler struct {
	Svc *Service
}

// RegisterRoutes mounts the document routes on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.remove)
	rg.POST("/documents/:id/regenerate-quiz", h.regenerateQuiz)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	prompt := strings.TrimSpace(c.PostForm("prompt"))

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the 10 MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "Image file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Image file is required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the 10 MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	doc, err := h.Svc.Process(c.Request.Context(), UploadInput{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
		Prompt:   prompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFile):
			respond.Error(c, http.StatusBadRequest, "Image file is required", nil)
		case errors.Is(err, ErrMissingPrompt):
			respond.Error(c, http.StatusBadRequest, "Prompt is required", nil)
		case errors.Is(err, ErrAnalysisFailed):
			respond.Error(c, http.StatusInternalServerError, "Failed to analyze document", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to process document", err)
		}
		return
	}
	respond.OK(c, "Document processed successfully", doc)
}

// isTooLarge detects the MaxBytesReader limit tripping. The multipart reader
// does not always wrap the error, so the sentinel message is matched too.
func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	res, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}
	respond.OK(c, "Documents retrieved successfully", res)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	respond.OK(c, "Document retrieved successfully", doc)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDocumentError(c, err)
		return
	}
	respond.OK(c, "Document deleted successfully", nil)
}

func (h *Handler) regenerateQuiz(c *gin.Context) {
	questions, err := h.Svc.RegenerateQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDocumentError(c, err)
		return
	}
	respond.OK(c, "Quiz regenerated successfully", gin.H{"quizQuestions": questions})
}

// writeDocumentError maps service errors onto the shared taxonomy.
func writeDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		respond.Error(c, http.StatusBadRequest, "Invalid document id", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Document not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "Failed to process request", err)
	}
}
