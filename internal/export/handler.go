package export

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/shared/server/respond"
)

// Handler exposes the export endpoints.
type Handler struct {
	Svc *Service
}

// RegisterRoutes mounts the export routes on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export/:id", h.export)
	rg.GET("/export/:id/options", h.options)
	rg.GET("/export/:id/summary", h.exportMode(ModeSummary))
	rg.GET("/export/:id/quiz", h.exportMode(ModeQuiz))
	rg.GET("/export/:id/notes", h.exportMode(ModeNotes))
	rg.GET("/export/:id/chat", h.exportMode(ModeChat))
}

func (h *Handler) options(c *gin.Context) {
	opts, err := h.Svc.Options(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeExportError(c, err)
		return
	}
	respond.OK(c, "Export options retrieved successfully", opts)
}

func (h *Handler) export(c *gin.Context) {
	mode := Mode(c.DefaultQuery("type", string(ModeComplete)))
	h.render(c, mode)
}

func (h *Handler) exportMode(mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, mode)
	}
}

func (h *Handler) render(c *gin.Context, mode Mode) {
	res, err := h.Svc.Render(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		writeExportError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	c.Data(http.StatusOK, "application/pdf", res.Data)
}

func writeExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrInvalidID):
		respond.Error(c, http.StatusBadRequest, "Invalid document id", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Document not found", nil)
	case errors.Is(err, ErrNoQuiz):
		respond.Error(c, http.StatusNotFound, "No quiz questions found for this document", nil)
	case errors.Is(err, ErrNoChat):
		respond.Error(c, http.StatusNotFound, "No chat history found for this document", nil)
	case errors.Is(err, ErrUnknownMode):
		respond.Error(c, http.StatusBadRequest, "Invalid export type", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "Failed to export document", err)
	}
}
