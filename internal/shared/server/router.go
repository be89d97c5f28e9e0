package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studyaid-backend/internal/chat"
	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/export"
	"studyaid-backend/internal/services/health"
	"studyaid-backend/internal/shared/config"
	"studyaid-backend/internal/shared/metrics"
	"studyaid-backend/internal/shared/server/middleware"
	"studyaid-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config    config.Config
	Documents *documents.Handler
	Chat      *chat.Handler
	Export    *export.Handler
	Health    *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 10, Burst: 30},
				"UPLOAD":  {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/upload") {
					return "UPLOAD"
				}
				return ""
			},
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		payload := map[string]any{"ok": true}
		if deps.Health != nil {
			payload = deps.Health.Status()
		}
		respond.OK(c, "OK", payload)
	})
	r.GET("/metrics", metrics.Handler())

	// Uploaded files are served statically when stored on the local disk.
	if cfg.ObjectStoreType == "local" {
		r.Static("/uploads", cfg.LocalStoreDir)
	}

	root := r.Group("")
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(root)
	}
	if deps.Chat != nil {
		deps.Chat.RegisterRoutes(root)
	}
	if deps.Export != nil {
		deps.Export.RegisterRoutes(root)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
