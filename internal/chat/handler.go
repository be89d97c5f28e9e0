package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/shared/server/respond"
)

// Handler exposes the chat endpoints.
type Handler struct {
	Svc *Service
}

// RegisterRoutes mounts the chat routes on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat/send", h.send)
	rg.GET("/chat/history/:documentId", h.history)
	rg.DELETE("/chat/history/:documentId", h.clear)
	rg.GET("/chat/context/:documentId", h.context)
	rg.GET("/chat", h.list)
}

type sendRequest struct {
	DocumentID string `json:"documentId"`
	Message    string `json:"message"`
}

func (h *Handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	res, err := h.Svc.Send(c.Request.Context(), req.DocumentID, req.Message)
	if err != nil {
		writeChatError(c, err)
		return
	}
	respond.OK(c, "Message sent successfully", res)
}

func (h *Handler) history(c *gin.Context) {
	hist, err := h.Svc.HistoryOf(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		writeChatError(c, err)
		return
	}
	respond.OK(c, "Chat history retrieved successfully", hist)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context(), c.Param("documentId")); err != nil {
		writeChatError(c, err)
		return
	}
	respond.OK(c, "Chat history cleared successfully", nil)
}

func (h *Handler) context(c *gin.Context) {
	res, err := h.Svc.Context(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		writeChatError(c, err)
		return
	}
	respond.OK(c, "Chat context retrieved successfully", res)
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	res, err := h.Svc.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list chats", err)
		return
	}
	respond.OK(c, "Chats retrieved successfully", res)
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrInvalidID):
		respond.Error(c, http.StatusBadRequest, "Invalid document id", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Document not found", nil)
	case errors.Is(err, ErrMissingDocumentID):
		respond.Error(c, http.StatusBadRequest, "Document id is required", nil)
	case errors.Is(err, ErrEmptyMessage):
		respond.Error(c, http.StatusBadRequest, "Message is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "Failed to process request", err)
	}
}
