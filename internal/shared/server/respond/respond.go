package respond

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studyaid-backend/internal/shared/telemetry"
)

// Envelope is the uniform wrapper for every JSON response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// exposeDetail toggles whether 500 responses carry the underlying error text.
// Bootstrap sets it once from the environment.
var exposeDetail = true

// SetExposeErrorDetail controls whether internal error detail reaches clients.
func SetExposeErrorDetail(v bool) {
	exposeDetail = v
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data any) {
	JSON(c, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data any) {
	JSON(c, http.StatusCreated, message, data)
}

// JSON writes a success envelope with the given status.
func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// Error writes and aborts with a failure envelope. Detail is elided on 500s
// outside dev-like environments.
func Error(c *gin.Context, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}

	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"message":    message,
		"error":      detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	if status >= http.StatusInternalServerError && !exposeDetail {
		detail = ""
	}

	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: now(),
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
