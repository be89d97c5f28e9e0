package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"studyaid-backend/internal/ai"
	"studyaid-backend/internal/chat"
	"studyaid-backend/internal/documents"
	"studyaid-backend/internal/export"
	"studyaid-backend/internal/ocr"
	"studyaid-backend/internal/services/health"
	"studyaid-backend/internal/shared/config"
	"studyaid-backend/internal/shared/server"
	"studyaid-backend/internal/shared/server/respond"
	"studyaid-backend/internal/shared/storage/db"
	"studyaid-backend/internal/shared/storage/object"
	localstore "studyaid-backend/internal/shared/storage/object/local"
	s3store "studyaid-backend/internal/shared/storage/object/s3"
	"studyaid-backend/internal/shared/telemetry"
	"studyaid-backend/internal/videos"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Redis  *redisv9.Client

	OCR    *ocr.Service
	AI     *ai.Service
	Videos *videos.Service

	DocumentsRepo documents.Repo
	ChatRepo      chat.Repo

	DocumentsService *documents.Service
	ChatService      *chat.Service
	ExportService    *export.Service

	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	ExportHandler    *export.Handler
	Health           *health.Service
}

// Build prepares shared dependencies and wires the router. Missing provider
// credentials degrade the corresponding adapter instead of failing startup;
// only hard infrastructure errors abort.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	respond.SetExposeErrorDetail(cfg.IsDevLike())
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Redis:  buildRedis(cfg),
		OCR:    ocr.New(ctx, cfg.GoogleCredentialsFile, cfg.GoogleProjectID),
		AI:     ai.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel),
		Videos: videos.New(ctx, cfg.YouTubeAPIKey),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Documents: app.DocumentsHandler,
		Chat:      app.ChatHandler,
		Export:    app.ExportHandler,
		Health:    app.Health,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_connect_failed", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(cfg config.Config) *redisv9.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	return redisv9.NewClient(&redisv9.Options{Addr: cfg.RedisAddr})
}

func buildServices(app *App) {
	var docRepo documents.Repo
	var chatRepo chat.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		chatRepo = &chat.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		chatRepo = chat.NewMemoryRepo()
	}
	app.DocumentsRepo = docRepo
	app.ChatRepo = chatRepo
	historyCache := chat.NewHistoryCache(app.Redis)

	app.DocumentsService = &documents.Service{
		Repo:   docRepo,
		Store:  app.Store,
		OCR:    app.OCR,
		AI:     app.AI,
		Videos: app.Videos,
		Chats:  chat.Cleaner{Repo: chatRepo, Cache: historyCache},
	}
	app.ChatService = &chat.Service{
		Repo:  chatRepo,
		Docs:  app.DocumentsService,
		AI:    app.AI,
		Cache: historyCache,
	}
	app.ExportService = &export.Service{
		Docs:  app.DocumentsService,
		Chats: app.ChatService,
	}

	app.DocumentsHandler = &documents.Handler{Svc: app.DocumentsService}
	app.ChatHandler = &chat.Handler{Svc: app.ChatService}
	app.ExportHandler = &export.Handler{Svc: app.ExportService}
	app.Health = &health.Service{
		OCR:       app.OCR,
		AI:        app.AI,
		Videos:    app.Videos,
		StoreType: app.Config.ObjectStoreType,
		DBPresent: app.DB != nil,
	}
}
